package router

import (
	"dating_match_service/internal/matching/app"
	"dating_match_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register matching routes
func RegisterRoutes(r *fiber.App, handler *app.MatchingHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Post("/matching/swipe", handler.Swipe)
	r.Get("/matching/matches", handler.Matches)
	r.Get("/matching/received-likes", handler.ReceivedLikes)
	r.Delete("/matching/matches/:matchID", handler.Unmatch)
}
