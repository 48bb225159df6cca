package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"socialite/internal/middleware"
	"socialite/internal/monitoring"
	"socialite/internal/services"
)

// AccountHandler handles HTTP requests for identity and profiles.
type AccountHandler struct {
	accountService *services.AccountService
	validate       *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app. The auth
// middleware is applied per route, matching the public/protected mix.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Get("/me", auth, h.HandleMe)
	router.Put("/me/update-password", auth, h.HandleUpdatePassword)
	router.Get("/user/:id", h.HandleGetUser)
}

// CredentialsRequest represents the request body for signup and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup handles new user registration.
func (h *AccountHandler) HandleSignup(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.accountService.Signup(req.Username, req.Password); err != nil {
		return respondError(c, err)
	}

	monitoring.SignupSuccess.Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	token, err := h.accountService.Login(req.Username, req.Password)
	if err != nil {
		monitoring.LoginFailure.Inc()
		return respondError(c, err)
	}

	monitoring.LoginSuccess.Inc()
	return c.JSON(fiber.Map{
		"token": token,
	})
}

// HandleMe returns the caller's own profile.
func (h *AccountHandler) HandleMe(c *fiber.Ctx) error {
	profile, err := h.accountService.Me(middleware.IdentityFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleUpdatePassword replaces the caller's password.
func (h *AccountHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-password request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Password is required",
		})
	}

	if err := h.accountService.UpdatePassword(middleware.IdentityFromCtx(c), req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password updated",
	})
}

// HandleGetUser returns the public profile of a user by id. No auth required.
func (h *AccountHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id",
		})
	}

	profile, err := h.accountService.GetUser(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
