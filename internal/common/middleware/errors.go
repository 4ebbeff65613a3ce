package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"
	"wedding-layout/internal/common/logger"
)

// ============================================================
// Error Handler
// ============================================================

// ErrorHandler renders every error returned by a handler as {"error", "message"}.
// Plain errors become 500s; fiber errors keep their status.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = logger.OrNop(log)

	return func(c fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		code := "internal_error"
		message := err.Error()

		var fe *fiber.Error
		if apiErr, ok := apierr.As(err); ok {
			status = apiErr.Status
			code = apiErr.Code
		} else if errors.As(err, &fe) {
			status = fe.Code
			code = http.StatusText(fe.Code)
			message = fe.Message
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
			if status == http.StatusInternalServerError {
				message = "internal server error"
			}
		} else {
			log.Info("request rejected", "method", c.Method(), "path", c.Path(), "status", status, "code", code)
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   code,
			"message": message,
		})
	}
}
