package repositories

import "socialite/internal/models"

// UserRepository defines the interface for user and social-graph data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdatePasswordHash(id uint, hash string) error
	IsFollowing(followerID, followeeID uint) (bool, error)
	// Follow inserts the edge and increments the followee's counter in one
	// transaction.
	Follow(followerID, followeeID uint) error
	// Unfollow removes the edge if present and decrements the counter, never
	// below zero. Removing a missing edge is a no-op.
	Unfollow(followerID, followeeID uint) error
	MostFollowed() ([]models.UserRanking, error)
}
