package services

import (
	"log"

	"socialite/internal/models"
	"socialite/internal/repositories"
	"socialite/pkg/apperrors"
	"socialite/pkg/rabbitmq"
)

// SocialService handles business logic for the follow relationship and the
// most-followed leaderboard.
type SocialService struct {
	userRepo repositories.UserRepository
	mqClient *rabbitmq.Client
}

// NewSocialService creates a new SocialService.
func NewSocialService(userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *SocialService {
	return &SocialService{
		userRepo: userRepo,
		mqClient: mqClient,
	}
}

// Follow adds a follow edge from the caller to the target and increments the
// target's follower counter. Both writes happen in one store transaction.
func (s *SocialService) Follow(ident Identity, targetID uint) error {
	if ident.ID == 0 {
		return apperrors.ErrInvalidIdentity
	}

	if _, err := s.userRepo.GetByID(targetID); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return apperrors.ErrUserNotFound
		}
		log.Printf("Error loading follow target %d: %v", targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error following user", err)
	}

	following, err := s.userRepo.IsFollowing(ident.ID, targetID)
	if err != nil {
		log.Printf("Error checking follow edge %d -> %d: %v", ident.ID, targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error following user", err)
	}
	if following {
		return apperrors.ErrAlreadyFollowing
	}

	if err := s.userRepo.Follow(ident.ID, targetID); err != nil {
		log.Printf("Error following user %d -> %d: %v", ident.ID, targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error following user", err)
	}

	s.publishEvent("user.followed", map[string]interface{}{
		"followerId": ident.ID,
		"followeeId": targetID,
	})
	return nil
}

// Unfollow removes the follow edge from the caller to the target. Unfollowing
// a user that was never followed still succeeds.
func (s *SocialService) Unfollow(ident Identity, targetID uint) error {
	if ident.ID == 0 {
		return apperrors.ErrInvalidIdentity
	}

	if _, err := s.userRepo.GetByID(targetID); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return apperrors.ErrUserNotFound
		}
		log.Printf("Error loading unfollow target %d: %v", targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error unfollowing user", err)
	}

	if err := s.userRepo.Unfollow(ident.ID, targetID); err != nil {
		log.Printf("Error unfollowing user %d -> %d: %v", ident.ID, targetID, err)
		return apperrors.Wrap(apperrors.CodeInternal, "Error unfollowing user", err)
	}

	s.publishEvent("user.unfollowed", map[string]interface{}{
		"followerId": ident.ID,
		"followeeId": targetID,
	})
	return nil
}

// MostFollowed returns all users ordered by follower count descending.
func (s *SocialService) MostFollowed() ([]models.UserRanking, error) {
	rankings, err := s.userRepo.MostFollowed()
	if err != nil {
		log.Printf("Error fetching most followed users: %v", err)
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error fetching most followed users", err)
	}
	return rankings, nil
}

// publishEvent emits a social event, best effort. A broker failure is logged
// and never fails the operation that triggered it.
func (s *SocialService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", eventType, err)
	}
}
