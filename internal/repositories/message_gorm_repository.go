package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"socialite/internal/models"
)

// GORMMessageRepository is a GORM implementation of MessageRepository.
type GORMMessageRepository struct {
	db *gorm.DB
}

// NewGORMMessageRepository creates a new instance of GORMMessageRepository.
func NewGORMMessageRepository(db *gorm.DB) *GORMMessageRepository {
	return &GORMMessageRepository{
		db: db,
	}
}

// Create persists a new message.
func (r *GORMMessageRepository) Create(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByReceiverID returns the messages delivered to a user, newest first.
func (r *GORMMessageRepository) GetByReceiverID(receiverID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for receiver %d: %w", receiverID, err)
	}
	return messages, nil
}
