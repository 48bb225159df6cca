package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"socialite/pkg/apperrors"
)

// respondError maps an application error to its HTTP status and fixed
// user-facing message. Anything without a code is an internal failure.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(statusFor(appErr.Code)).JSON(fiber.Map{
		"message": appErr.Message,
	})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument, apperrors.CodeFailedPrecondition:
		return fiber.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case apperrors.CodeNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeAlreadyExists:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
