package repositories

import "socialite/internal/models"

// MessageRepository defines the interface for message data access.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByReceiverID(receiverID uint) ([]models.Message, error)
}
