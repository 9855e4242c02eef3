package app

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/internal/chat/repository"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/logger"
	"dating_match_service/pkg/middlewares"
)

// ChatWebsocketHandler entry point of one websocket connection
type ChatWebsocketHandler struct {
	roomUC     *RoomUseCase
	messageUC  *MessageUseCase
	presenceUC *PresenceUseCase
	pubsub     repository.PubSub
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(roomUC *RoomUseCase,
	messageUC *MessageUseCase,
	presenceUC *PresenceUseCase,
	pubsub repository.PubSub,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		roomUC:     roomUC,
		messageUC:  messageUC,
		presenceUC: presenceUC,
		pubsub:     pubsub,
	}
}

// wsSession serializes writes; subscription goroutines and the action
// loop share one connection
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *wsSession) send(resp domain.WSResponse) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(resp); err != nil {
		logger.Log.Errorf("websocket write error:", err)
	}
}

// HandleConnection run one connection until the client goes away
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	rawID, _ := conn.Locals(middlewares.TokenUserID).(string)
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		logger.Log.Warn("websocket rejected, no valid user id", zap.String("raw", rawID))
		conn.Close()
		return
	}
	logger.Log.Info("websocket connected", zap.Int64("userID", userID))

	session := &wsSession{conn: conn}
	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	// per-connection room subscriptions, touched only by the read loop
	roomSubs := map[int64]context.CancelFunc{}

	if err := h.presenceUC.MarkOnline(ctx, userID); err != nil {
		logger.Log.Warn("mark online failed", zap.Int64("userID", userID), zap.Error(err))
	}

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.Int64("userID", userID))
		if err := h.presenceUC.MarkOffline(context.Background(), userID); err != nil {
			logger.Log.Warn("mark offline failed", zap.Int64("userID", userID), zap.Error(err))
		}
		conn.Close()
		cancel()
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("websocket closed:", conn.RemoteAddr())
		return nil
	})
	conn.SetPongHandler(func(appData string) error {
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// private queue, carries notifications aimed at this user only
	h.pubsub.Subscribe(ctxClose, domain.UserChannel(userID), func(evt domain.Event) {
		session.send(eventResponse(evt))
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, ctxClose, session, userID, roomSubs, mt, message)
	}
}

func (h *ChatWebsocketHandler) execWebsocketAction(ctx, ctxClose context.Context, session *wsSession, userID int64, roomSubs map[int64]context.CancelFunc, mt int, msg []byte) {
	if mt != websocket.TextMessage {
		return
	}

	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		session.send(domain.WSResponse{Action: "error", Error: "invalid request"})
		return
	}

	switch domain.Action(req.Action) {
	case domain.EnterRoom:
		// participant check happens once here; events then flow freely
		if _, err := h.roomUC.Room(ctx, req.RoomID, userID); err != nil {
			session.send(failResponse(req.Action, err))
			return
		}
		if _, ok := roomSubs[req.RoomID]; ok {
			session.send(okResponse(req.Action, map[string]interface{}{"room_id": req.RoomID}))
			return
		}
		subCtx, cancelSub := context.WithCancel(ctxClose)
		h.pubsub.Subscribe(subCtx, domain.RoomChannel(req.RoomID), func(evt domain.Event) {
			session.send(eventResponse(evt))
		})
		roomSubs[req.RoomID] = cancelSub
		session.send(okResponse(req.Action, map[string]interface{}{"room_id": req.RoomID}))

	case domain.LeaveRoom:
		if cancelSub, ok := roomSubs[req.RoomID]; ok {
			cancelSub()
			delete(roomSubs, req.RoomID)
		}
		session.send(okResponse(req.Action, map[string]interface{}{"room_id": req.RoomID}))

	case domain.SendMessage:
		sent, err := h.messageUC.Send(ctx, req.RoomID, userID, req.Type, req.Content, req.ImageURL)
		if err != nil {
			session.send(failResponse(req.Action, err))
			return
		}
		session.send(okResponse(req.Action, map[string]interface{}{
			"message_id": sent.ID,
			"room_id":    sent.RoomID,
		}))

	case domain.Typing:
		if err := h.messageUC.Typing(ctx, req.RoomID, userID); err != nil {
			session.send(failResponse(req.Action, err))
			return
		}

	case domain.ReadMessage:
		count, err := h.messageUC.MarkRead(ctx, req.RoomID, userID)
		if err != nil {
			session.send(failResponse(req.Action, err))
			return
		}
		session.send(okResponse(req.Action, map[string]interface{}{"read_count": count}))

	case domain.RecallMessage:
		if err := h.messageUC.Recall(ctx, req.MessageID, userID); err != nil {
			session.send(failResponse(req.Action, err))
			return
		}
		session.send(okResponse(req.Action, map[string]interface{}{"message_id": req.MessageID}))

	default:
		session.send(domain.WSResponse{Action: req.Action, Error: "unknown action"})
	}
}

func okResponse(action string, payload map[string]interface{}) domain.WSResponse {
	return domain.WSResponse{Action: action, Success: true, Payload: payload}
}

func failResponse(action string, err error) domain.WSResponse {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return domain.WSResponse{Action: action, Error: appErr.Message}
	}
	return domain.WSResponse{Action: action, Error: "internal error"}
}

func eventResponse(evt domain.Event) domain.WSResponse {
	return domain.WSResponse{
		Action:  "event",
		Success: true,
		Payload: map[string]interface{}{
			"type":      string(evt.Type),
			"room_id":   evt.RoomID,
			"payload":   evt.Payload,
			"timestamp": evt.Timestamp,
		},
	}
}
