package services

import (
	"log"
	"time"

	"socialite/internal/models"
	"socialite/internal/repositories"
	"socialite/pkg/apperrors"
	"socialite/pkg/rabbitmq"
)

// MessageService handles business logic for direct messages. It depends on
// the user repository to validate the target before a message is stored.
type MessageService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	mqClient    *rabbitmq.Client
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		mqClient:    mqClient,
	}
}

// CreateMessage stores a message from the caller to the target user. Only the
// target's existence is checked; the sender id is taken from the verified
// token as-is.
func (s *MessageService) CreateMessage(ident Identity, targetID uint, content string) error {
	if ident.ID == 0 {
		return apperrors.ErrInvalidIdentity
	}

	target, err := s.userRepo.GetByID(targetID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return apperrors.ErrUserNotFound
		}
		log.Printf("Error loading message target %d: %v", targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error sending message", err)
	}

	message := &models.Message{
		Content:    content,
		CreatedAt:  time.Now(),
		SenderID:   ident.ID,
		ReceiverID: target.ID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		log.Printf("Error sending message %d -> %d: %v", ident.ID, targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error sending message", err)
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("message.sent", map[string]interface{}{
			"messageId":  message.ID,
			"senderId":   message.SenderID,
			"receiverId": message.ReceiverID,
		}); err != nil {
			log.Printf("Warning: Failed to publish message.sent event: %v", err)
		}
	}
	return nil
}

// Inbox returns the messages delivered to the caller, newest first.
func (s *MessageService) Inbox(ident Identity) ([]models.Message, error) {
	if ident.ID == 0 {
		return nil, apperrors.ErrInvalidIdentity
	}

	messages, err := s.messageRepo.GetByReceiverID(ident.ID)
	if err != nil {
		log.Printf("Error fetching inbox for user %d: %v", ident.ID, err)
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error fetching messages", err)
	}
	return messages, nil
}
