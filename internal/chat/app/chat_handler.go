package app

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/middlewares"
)

// ChatHandler definition chat REST handler
type ChatHandler struct {
	RoomUC    *RoomUseCase
	MessageUC *MessageUseCase
}

type sendMessageRequest struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// Rooms list the caller's active rooms, most recently touched first
func (h *ChatHandler) Rooms(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	views, err := h.RoomUC.Rooms(c.Context(), userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"rooms": views})
}

// Room one room view, participant only
func (h *ChatHandler) Room(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	view, err := h.RoomUC.Room(c.Context(), roomID, userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// DeactivateRoom hide the room on a participant's request
func (h *ChatHandler) DeactivateRoom(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	if err := h.RoomUC.Deactivate(c.Context(), roomID, userID); err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "room deactivated"})
}

// Messages one cursor page of the caller's visible messages
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	var cursor *int64
	if raw := c.Query("cursor"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperr.Reply(c, apperr.BadRequest("INVALID_CURSOR", "cursor must be a number"))
		}
		cursor = &id
	}

	dir, err := domain.ParseDirection(c.Query("direction"))
	if err != nil {
		return apperr.Reply(c, apperr.BadRequest("INVALID_DIRECTION", "direction must be NEXT or PREVIOUS"))
	}

	page, err := h.MessageUC.Page(c.Context(), roomID, userID, cursor, c.QueryInt("limit"), dir)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// SendMessage persist one message over REST
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Reply(c, apperr.BadRequest("INVALID_BODY", "invalid request body"))
	}

	msg, err := h.MessageUC.Send(c.Context(), roomID, userID, req.Type, req.Content, req.ImageURL)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusCreated).JSON(msg)
}

// MarkRead flag the others' messages read
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	count, err := h.MessageUC.MarkRead(c.Context(), roomID, userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"read_count": count})
}

// UnreadCount unread messages in one room
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	count, err := h.MessageUC.UnreadCount(c.Context(), roomID, userID)
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"unread_count": count})
}

// DeleteForMe hide one message for the caller only
func (h *ChatHandler) DeleteForMe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	messageID, err := paramID(c, "messageID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	if err := h.MessageUC.DeleteForMe(c.Context(), messageID, userID); err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "deleted for you"})
}

// Recall withdraw an own message inside the recall window
func (h *ChatHandler) Recall(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	messageID, err := paramID(c, "messageID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	if err := h.MessageUC.Recall(c.Context(), messageID, userID); err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "recalled"})
}

// UploadImage store an attachment and return its public URL
func (h *ChatHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}
	roomID, err := paramID(c, "roomID")
	if err != nil {
		return apperr.Reply(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.Reply(c, apperr.BadRequest("FILE_REQUIRED", "no file in request"))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return apperr.Reply(c, err)
	}
	defer src.Close()

	url, err := h.MessageUC.UploadImage(c.Context(), roomID, userID,
		fileHeader.Filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"image_url": url})
}

// DeleteImage remove an uploaded attachment, uploader only
func (h *ChatHandler) DeleteImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Reply(c, err)
	}

	url := c.Query("url")
	if url == "" {
		return apperr.Reply(c, apperr.BadRequest("URL_REQUIRED", "url query parameter is required"))
	}

	if err := h.MessageUC.DeleteImage(c.Context(), url, userID); err != nil {
		return apperr.Reply(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "image deleted"})
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

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("INVALID_ID", name+" must be a positive number")
	}
	return id, nil
}
