package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dating_match_service/internal/chat/domain"
	"dating_match_service/internal/chat/repository"
	notifyapp "dating_match_service/internal/notification/app"
	userrepo "dating_match_service/internal/user/repository"
	"dating_match_service/pkg/apperr"
	"dating_match_service/pkg/logger"
)

const defaultPageLimit = 20

// MessageUseCase application service for the message store, pager,
// recall and attachment handling
type MessageUseCase struct {
	roomRepo     repository.RoomRepository
	msgRepo      repository.MessageRepository
	pubsub       repository.PubSub
	userRepo     userrepo.UserRepository
	notifier     notifyapp.Notifier
	storage      repository.FileStorage
	baseURL      string
	recallWindow time.Duration
	pageLimitCap int

	now func() time.Time
}

// NewMessageUseCase create a MessageUseCase
func NewMessageUseCase(roomRepo repository.RoomRepository,
	msgRepo repository.MessageRepository,
	pubsub repository.PubSub,
	userRepo userrepo.UserRepository,
	notifier notifyapp.Notifier,
	storage repository.FileStorage,
	baseURL string,
	recallWindow time.Duration,
	pageLimitCap int,
) *MessageUseCase {
	return &MessageUseCase{
		roomRepo:     roomRepo,
		msgRepo:      msgRepo,
		pubsub:       pubsub,
		userRepo:     userRepo,
		notifier:     notifier,
		storage:      storage,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		recallWindow: recallWindow,
		pageLimitCap: pageLimitCap,
		now:          time.Now,
	}
}

// Send validate and persist one message, touch the room, fan out the
// MESSAGE event and queue a notification for the counterpart
func (uc *MessageUseCase) Send(ctx context.Context, roomID, senderID int64, msgType, content, imageURL string) (*domain.Message, error) {
	parsed, err := domain.ParseMessageType(msgType)
	if err != nil {
		return nil, apperr.BadRequest("INVALID_MESSAGE_TYPE", "unknown message type")
	}
	if parsed == domain.TypeSystem {
		return nil, apperr.BadRequest("INVALID_MESSAGE_TYPE", "system messages cannot be sent by users")
	}
	if parsed.NeedsContent() {
		if content == "" {
			return nil, apperr.BadRequest("CONTENT_REQUIRED", "content is required for this message type")
		}
		if imageURL != "" {
			return nil, apperr.BadRequest("UNEXPECTED_ATTACHMENT", "this message type does not carry an attachment")
		}
	}
	if parsed.NeedsAttachment() && imageURL == "" {
		return nil, apperr.BadRequest("ATTACHMENT_REQUIRED", "image_url is required for this message type")
	}

	room, err := uc.requireRoomMember(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, apperr.BadRequest("ROOM_INACTIVE", "chat room is no longer active")
	}

	msg := &domain.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Type:     parsed,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := uc.roomRepo.Touch(ctx, roomID); err != nil {
		logger.Log.Warn("room touch failed", zap.Int64("roomID", roomID), zap.Error(err))
	}

	counterpartID := room.Counterpart(senderID)
	uc.publish(domain.RoomChannel(roomID), domain.Event{
		Type:   domain.EventMessage,
		RoomID: roomID,
		Payload: map[string]interface{}{
			"message_id": msg.ID,
			"sender_id":  msg.SenderID,
			"type":       string(msg.Type),
			"content":    msg.Content,
			"image_url":  msg.ImageURL,
			"created_at": msg.CreatedAt.Unix(),
		},
		Timestamp: uc.now().Unix(),
	})
	uc.publish(domain.UserChannel(counterpartID), domain.Event{
		Type:   domain.EventMessage,
		RoomID: roomID,
		Payload: map[string]interface{}{
			"message_id": msg.ID,
			"sender_id":  msg.SenderID,
		},
		Timestamp: uc.now().Unix(),
	})

	if uc.notifier != nil {
		senderName := ""
		if sender, err := uc.userRepo.FindByID(ctx, senderID); err == nil {
			senderName = sender.Username
		}
		uc.notifier.NotifyMessage(ctx, counterpartID, msg.ID, senderName)
	}
	return msg, nil
}

// Page one cursor page of the viewer's visible messages.
// A nil cursor starts at the newest; NEXT pages toward older messages,
// PREVIOUS toward newer ones. One extra row is fetched to decide the
// direction's has-more flag.
func (uc *MessageUseCase) Page(ctx context.Context, roomID, viewerID int64, cursor *int64, limit int, dir domain.Direction) (*domain.MessagePage, error) {
	if _, err := uc.requireRoomMember(ctx, roomID, viewerID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if uc.pageLimitCap > 0 && limit > uc.pageLimitCap {
		limit = uc.pageLimitCap
	}

	messages, err := uc.msgRepo.FindVisiblePage(ctx, roomID, viewerID, cursor, limit+1, dir)
	if err != nil {
		return nil, err
	}

	more := len(messages) > limit
	if more {
		messages = messages[:limit]
	}

	page := &domain.MessagePage{Messages: messages}
	if len(messages) == 0 {
		return page, nil
	}

	minID, maxID := messages[0].ID, messages[0].ID
	for _, m := range messages[1:] {
		if m.ID < minID {
			minID = m.ID
		}
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	page.NextCursor = &minID
	page.PreviousCursor = &maxID

	if dir == domain.DirectionPrevious && cursor != nil {
		page.HasPrevious = more
		page.HasNext = true
	} else {
		page.HasNext = more
		page.HasPrevious = cursor != nil
	}
	return page, nil
}

// MarkRead bulk-flag the others' unread messages and fan out the receipt
func (uc *MessageUseCase) MarkRead(ctx context.Context, roomID, readerID int64) (int, error) {
	if _, err := uc.requireRoomMember(ctx, roomID, readerID); err != nil {
		return 0, err
	}

	ids, err := uc.msgRepo.MarkRead(ctx, roomID, readerID, uc.now())
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		uc.publish(domain.RoomChannel(roomID), domain.Event{
			Type:   domain.EventReadReceipt,
			RoomID: roomID,
			Payload: map[string]interface{}{
				"reader_id":   readerID,
				"message_ids": ids,
			},
			Timestamp: uc.now().Unix(),
		})
	}
	return len(ids), nil
}

// UnreadCount messages in the room still unread by the user
func (uc *MessageUseCase) UnreadCount(ctx context.Context, roomID, userID int64) (int64, error) {
	if _, err := uc.requireRoomMember(ctx, roomID, userID); err != nil {
		return 0, err
	}
	return uc.msgRepo.CountUnread(ctx, roomID, userID)
}

// DeleteForMe hide one message for the caller only, idempotent
func (uc *MessageUseCase) DeleteForMe(ctx context.Context, messageID, userID int64) error {
	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		if err == repository.ErrMessageNotFound {
			return apperr.NotFound("MESSAGE_NOT_FOUND", "message does not exist")
		}
		return err
	}
	if _, err := uc.requireRoomMember(ctx, msg.RoomID, userID); err != nil {
		return err
	}
	return uc.msgRepo.HideForUser(ctx, messageID, userID)
}

// Recall withdraw an own message inside the recall window and tell
// every room subscriber
func (uc *MessageUseCase) Recall(ctx context.Context, messageID, userID int64) error {
	msg, err := uc.msgRepo.FindByID(ctx, messageID)
	if err != nil {
		if err == repository.ErrMessageNotFound {
			return apperr.NotFound("MESSAGE_NOT_FOUND", "message does not exist")
		}
		return err
	}
	if msg.SenderID != userID {
		return apperr.Forbidden("NOT_MESSAGE_SENDER", "only the sender can recall a message")
	}
	if msg.Recalled {
		return apperr.BadRequest("ALREADY_RECALLED", "message is already recalled")
	}
	now := uc.now()
	if now.Sub(msg.CreatedAt) > uc.recallWindow {
		return apperr.BadRequest("RECALL_WINDOW_EXPIRED", "message can no longer be recalled")
	}

	if err := uc.msgRepo.Recall(ctx, messageID, now); err != nil {
		return err
	}
	uc.publish(domain.RoomChannel(msg.RoomID), domain.Event{
		Type:   domain.EventMessageRecalled,
		RoomID: msg.RoomID,
		Payload: map[string]interface{}{
			"message_id": messageID,
			"sender_id":  msg.SenderID,
		},
		Timestamp: now.Unix(),
	})
	return nil
}

// Typing best-effort typing signal to the room
func (uc *MessageUseCase) Typing(ctx context.Context, roomID, userID int64) error {
	if _, err := uc.requireRoomMember(ctx, roomID, userID); err != nil {
		return err
	}
	uc.publish(domain.RoomChannel(roomID), domain.Event{
		Type:   domain.EventTyping,
		RoomID: roomID,
		Payload: map[string]interface{}{
			"user_id": userID,
		},
		Timestamp: uc.now().Unix(),
	})
	return nil
}

// UploadImage store an attachment under the room's prefix and return
// the public URL the client then sends as image_url
func (uc *MessageUseCase) UploadImage(ctx context.Context, roomID, uploaderID int64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := uc.requireRoomMember(ctx, roomID, uploaderID); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("chat/%d/%s%s", roomID, uuid.New().String(), path.Ext(filename))
	if err := uc.storage.Store(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}
	return uc.baseURL + "/" + objectName, nil
}

// DeleteImage remove an uploaded attachment, uploader only.
// Storage goes first; the message row keeps the reference if the
// object could not be deleted.
func (uc *MessageUseCase) DeleteImage(ctx context.Context, imageURL string, requesterID int64) error {
	msg, err := uc.msgRepo.FindByImageURL(ctx, imageURL)
	if err != nil {
		if err == repository.ErrMessageNotFound {
			return apperr.NotFound("IMAGE_NOT_FOUND", "no message owns this image")
		}
		return err
	}
	if msg.SenderID != requesterID {
		return apperr.Forbidden("NOT_IMAGE_UPLOADER", "only the uploader can delete this image")
	}

	objectName := strings.TrimPrefix(strings.TrimPrefix(imageURL, uc.baseURL), "/")
	if err := uc.storage.Delete(ctx, objectName); err != nil {
		return err
	}
	return uc.msgRepo.ClearImage(ctx, msg.ID)
}

func (uc *MessageUseCase) requireRoomMember(ctx context.Context, roomID, userID int64) (*domain.ChatRoom, error) {
	room, err := uc.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperr.NotFound("ROOM_NOT_FOUND", "chat room does not exist")
		}
		return nil, err
	}
	if !room.HasUser(userID) {
		return nil, apperr.Forbidden("NOT_ROOM_MEMBER", "you are not part of this chat room")
	}
	return room, nil
}

func (uc *MessageUseCase) publish(channel string, evt domain.Event) {
	if uc.pubsub == nil {
		return
	}
	if err := uc.pubsub.Publish(channel, evt); err != nil {
		logger.Log.Error("event publish failed",
			zap.String("channel", channel),
			zap.String("type", string(evt.Type)),
			zap.Error(err),
		)
	}
}
