package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"socialite/internal/middleware"
	"socialite/internal/monitoring"
	"socialite/internal/services"
)

// SocialHandler handles HTTP requests for the follow relationship and the
// leaderboard.
type SocialHandler struct {
	socialService *services.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
	}
}

// RegisterRoutes registers the social graph routes with the Fiber app.
func (h *SocialHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/user/:id/follow", auth, h.HandleFollow)
	router.Delete("/user/:id/unfollow", auth, h.HandleUnfollow)
	router.Get("/most-followed", h.HandleMostFollowed)
}

// HandleFollow adds a follow edge from the caller to the target user.
func (h *SocialHandler) HandleFollow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id",
		})
	}

	if err := h.socialService.Follow(middleware.IdentityFromCtx(c), uint(id)); err != nil {
		return respondError(c, err)
	}

	monitoring.FollowsTotal.Inc()
	return c.JSON(fiber.Map{
		"message": "User followed",
	})
}

// HandleUnfollow removes the follow edge from the caller to the target user.
// Unfollowing a user that was never followed still succeeds.
func (h *SocialHandler) HandleUnfollow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id",
		})
	}

	if err := h.socialService.Unfollow(middleware.IdentityFromCtx(c), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User unfollowed",
	})
}

// HandleMostFollowed returns all users ordered by follower count descending.
func (h *SocialHandler) HandleMostFollowed(c *fiber.Ctx) error {
	rankings, err := h.socialService.MostFollowed()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rankings)
}
