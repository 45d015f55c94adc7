package service

import (
	"context"
	"strings"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

const maxMessageLength = 2000

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, broadcaster Broadcaster) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

func (s *messageService) SendMessage(ctx context.Context, sender *domain.User, receiverID int32, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("message text is required")
	}
	if len(text) > maxMessageLength {
		return nil, invalidInput("message exceeds %d characters", maxMessageLength)
	}
	if receiverID == sender.ID {
		return nil, invalidInput("cannot message yourself")
	}
	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if receiver.Deleted {
		return nil, ErrUserNotFound
	}

	senderID := sender.ID
	msg := &domain.Message{
		SenderID:     &senderID,
		ReceiverID:   receiver.ID,
		Participants: []int32{sender.ID, receiver.ID},
		SenderRole:   string(sender.Role),
		ReceiverRole: string(receiver.Role),
		Text:         text,
		Kind:         domain.MessageKindChat,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.push(ctx, msg)
	return msg, nil
}

func (s *messageService) SendSystemMessage(ctx context.Context, receiverID int32, text string, attrs map[string]string) (*domain.Message, error) {
	msg := &domain.Message{
		ReceiverID:   receiverID,
		Participants: []int32{receiverID},
		SenderRole:   "system",
		Text:         text,
		Kind:         domain.MessageKindSystem,
		Attributes:   attrs,
	}
	if receiver, err := s.userRepo.GetByID(ctx, receiverID); err == nil {
		msg.ReceiverRole = string(receiver.Role)
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		logger.Error("Failed to store system message", "receiverID", receiverID, "error", err)
		return nil, err
	}
	s.push(ctx, msg)
	return msg, nil
}

func (s *messageService) push(ctx context.Context, msg *domain.Message) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(ctx, msg); err != nil {
		logger.Warn("Failed to push message", "messageID", msg.ID, "error", err)
	}
}

func (s *messageService) ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error) {
	return s.messageRepo.ListConversation(ctx, userID, peerID, limit)
}

func (s *messageService) ListInbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	return s.messageRepo.ListInbox(ctx, userID)
}

func (s *messageService) ListAllMessages(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error) {
	return s.messageRepo.List(ctx, page, pageSize)
}

func (s *messageService) DeleteMessage(ctx context.Context, id int32) error {
	return notFoundAs(s.messageRepo.Delete(ctx, id), ErrMessageNotFound)
}
