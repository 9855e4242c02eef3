package app

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/middlewares"
)

// MatchingHandler definition matching REST handler
type MatchingHandler struct {
	Usecase SwipeUseCase
}

type swipeRequest struct {
	TargetUserID int64 `json:"target_user_id"`
	IsLike       bool  `json:"is_like"`
}

// Swipe record a like or pass on another user
func (h *MatchingHandler) Swipe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	var req swipeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Reply(c, apperr.BadRequest("INVALID_BODY", "invalid request body"))
	}
	if req.TargetUserID <= 0 {
		return apperr.Reply(c, apperr.BadRequest("INVALID_TARGET", "target_user_id is required"))
	}

	result, err := h.Usecase.Swipe(c.Context(), userID, req.TargetUserID, req.IsLike)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// Matches list the caller's active matches
func (h *MatchingHandler) Matches(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	views, err := h.Usecase.Matches(c.Context(), userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"matches": views})
}

// ReceivedLikes list likes still waiting for the caller's answer
func (h *MatchingHandler) ReceivedLikes(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	likes, err := h.Usecase.ReceivedLikes(c.Context(), userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"likes": likes})
}

// Unmatch end one of the caller's matches
func (h *MatchingHandler) Unmatch(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	matchID, err := strconv.ParseInt(c.Params("matchID"), 10, 64)
	if err != nil {
		return apperr.Reply(c, apperr.BadRequest("INVALID_MATCH_ID", "match id must be a number"))
	}

	if err := h.Usecase.Unmatch(c.Context(), matchID, userID); err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "unmatched"})
}

// currentUserID the authenticated user id set by the JWT middleware
func currentUserID(c *fiber.Ctx) (int64, error) {
	raw, _ := c.Locals(middlewares.TokenUserID).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token")
	}
	return id, nil
}
