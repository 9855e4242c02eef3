package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"dating_match_service/internal/chat/app"
	"dating_match_service/pkg/middlewares"
)

// RegisterRoutes register chat routes
func RegisterRoutes(r *fiber.App, chatHandler *app.ChatHandler, chatWebsocket *app.ChatWebsocketHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))

	r.Get("/chat/rooms", chatHandler.Rooms)
	r.Get("/chat/rooms/:roomID", chatHandler.Room)
	r.Delete("/chat/rooms/:roomID", chatHandler.DeactivateRoom)

	r.Get("/chat/rooms/:roomID/messages", chatHandler.Messages)
	r.Post("/chat/rooms/:roomID/messages", chatHandler.SendMessage)
	r.Post("/chat/rooms/:roomID/read", chatHandler.MarkRead)
	r.Get("/chat/rooms/:roomID/unread-count", chatHandler.UnreadCount)
	r.Post("/chat/rooms/:roomID/images", chatHandler.UploadImage)

	r.Delete("/chat/messages/:messageID", chatHandler.DeleteForMe)
	r.Post("/chat/messages/:messageID/recall", chatHandler.Recall)
	r.Delete("/chat/images", chatHandler.DeleteImage)
}
