package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jiman93/Payment-transfer-module-ryt/internal/core/domain"
)

// statusFor maps domain error codes onto HTTP statuses. Validation errors
// are 400s, lookup misses 404s, sequencing mistakes 409s.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeAccountNotFound, domain.CodeTransferNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidStateTransition, domain.CodeNotCancellable:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeStillProcessing:
		return http.StatusAccepted
	default:
		return http.StatusBadRequest
	}
}

// respondError writes a domain error as {code, message}; anything else is
// an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return c.Status(statusFor(derr.Code)).JSON(fiber.Map{
			"code":    derr.Code,
			"message": derr.Message,
		})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
		"code":    "INTERNAL",
		"message": "something went wrong",
	})
}
