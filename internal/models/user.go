package models

import "time"

// User represents a registered account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	PasswordHash   string    `json:"-" gorm:"type:varchar(255)"`
	FollowersCount int       `json:"followersCount" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserRanking is the leaderboard projection of a user.
type UserRanking struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FollowersCount int    `json:"followersCount"`
}
