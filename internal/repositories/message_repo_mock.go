package repositories

import (
	"sort"
	"sync"
	"time"

	"socialite/internal/models"
)

// MockMessageRepository is an in-memory implementation of MessageRepository.
type MockMessageRepository struct {
	messages map[uint]models.Message
	nextID   uint
	mu       sync.RWMutex
}

// NewMockMessageRepository creates a new instance of MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]models.Message),
		nextID:   1,
	}
}

// Create stores a new message.
func (r *MockMessageRepository) Create(message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = r.nextID
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.nextID++
	r.messages[message.ID] = *message
	return nil
}

// GetByReceiverID returns the messages delivered to a user, newest first.
func (r *MockMessageRepository) GetByReceiverID(receiverID uint) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]models.Message, 0)
	for _, m := range r.messages {
		if m.ReceiverID == receiverID {
			messages = append(messages, m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}
