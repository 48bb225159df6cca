package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"socialite/internal/middleware"
	"socialite/internal/monitoring"
	"socialite/internal/services"
)

// MessageHandler handles HTTP requests for direct messages.
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// RegisterRoutes registers the message routes with the Fiber app.
func (h *MessageHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/user/:id/create-message", auth, h.HandleCreateMessage)
	router.Get("/me/messages", auth, h.HandleInbox)
}

// CreateMessageRequest represents the request body for sending a message.
type CreateMessageRequest struct {
	Message string `json:"message"`
}

// HandleCreateMessage stores a message from the caller to the target user.
func (h *MessageHandler) HandleCreateMessage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id",
		})
	}

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create-message request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Message is required",
		})
	}

	if err := h.messageService.CreateMessage(middleware.IdentityFromCtx(c), uint(id), req.Message); err != nil {
		return respondError(c, err)
	}

	monitoring.MessagesSent.Inc()
	return c.JSON(fiber.Map{
		"message": "Message sent",
	})
}

// HandleInbox returns the messages delivered to the caller, newest first.
func (h *MessageHandler) HandleInbox(c *fiber.Ctx) error {
	messages, err := h.messageService.Inbox(middleware.IdentityFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messages)
}
