package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"socialite/internal/models"
	"socialite/pkg/apperrors"
)

type followEdge struct {
	followerID uint
	followeeID uint
}

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[uint]models.User
	edges  map[followEdge]bool
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]models.User),
		edges:  make(map[followEdge]bool),
		nextID: 1,
	}
}

// Create adds a new user, enforcing username uniqueness like the store does.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("failed to create user: username %s already exists", user.Username)
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// GetByUsername returns a user by its username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// UpdatePasswordHash replaces the stored hash of a user.
func (r *MockUserRepository) UpdatePasswordHash(id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.PasswordHash = hash
	r.users[id] = user
	return nil
}

// IsFollowing reports whether the follower -> followee edge exists.
func (r *MockUserRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.edges[followEdge{followerID, followeeID}], nil
}

// Follow records the edge and increments the followee's counter.
func (r *MockUserRepository) Follow(followerID, followeeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	edge := followEdge{followerID, followeeID}
	if r.edges[edge] {
		return fmt.Errorf("failed to create follow edge %d -> %d: edge already exists", followerID, followeeID)
	}
	r.edges[edge] = true
	if followee, ok := r.users[followeeID]; ok {
		followee.FollowersCount++
		r.users[followeeID] = followee
	}
	return nil
}

// Unfollow removes the edge if present and decrements the counter, floored at
// zero. Missing edges are a no-op.
func (r *MockUserRepository) Unfollow(followerID, followeeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	edge := followEdge{followerID, followeeID}
	if !r.edges[edge] {
		return nil
	}
	delete(r.edges, edge)
	if followee, ok := r.users[followeeID]; ok && followee.FollowersCount > 0 {
		followee.FollowersCount--
		r.users[followeeID] = followee
	}
	return nil
}

// MostFollowed returns all users ordered by follower count descending.
func (r *MockUserRepository) MostFollowed() ([]models.UserRanking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rankings := make([]models.UserRanking, 0, len(r.users))
	for _, user := range r.users {
		rankings = append(rankings, models.UserRanking{
			ID:             user.ID,
			Username:       user.Username,
			FollowersCount: user.FollowersCount,
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].FollowersCount > rankings[j].FollowersCount
	})
	return rankings, nil
}
