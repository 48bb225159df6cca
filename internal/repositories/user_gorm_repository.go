package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"socialite/internal/models"
	"socialite/pkg/apperrors"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. The unique index on username
// rejects duplicates.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored password hash of a user.
func (r *GORMUserRepository) UpdatePasswordHash(id uint, hash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// IsFollowing reports whether the follower -> followee edge exists.
func (r *GORMUserRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge %d -> %d: %w", followerID, followeeID, err)
	}
	return count > 0, nil
}

// Follow inserts the edge and bumps the followee's counter atomically, so a
// failure on either write rolls back the other.
func (r *GORMUserRepository) Follow(followerID, followeeID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followeeID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create follow edge %d -> %d: %w", followerID, followeeID, err)
	}
	return nil
}

// Unfollow deletes the edge and decrements the counter in one transaction.
// The decrement is conditional on the counter being positive and only runs
// when an edge was actually removed.
func (r *GORMUserRepository) Unfollow(followerID, followeeID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND followers_count > 0", followeeID).
			UpdateColumn("followers_count", gorm.Expr("followers_count - 1")).Error
	})
	if err != nil {
		return fmt.Errorf("failed to remove follow edge %d -> %d: %w", followerID, followeeID, err)
	}
	return nil
}

// MostFollowed returns all users projected to the leaderboard fields, ordered
// by follower count descending.
func (r *GORMUserRepository) MostFollowed() ([]models.UserRanking, error) {
	var rankings []models.UserRanking
	err := r.db.Model(&models.User{}).
		Select("id, username, followers_count").
		Order("followers_count DESC").
		Scan(&rankings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get most followed users: %w", err)
	}
	return rankings, nil
}
