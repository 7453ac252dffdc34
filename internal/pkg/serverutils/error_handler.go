package serverutils

import (
	"errors"

	"notehub-be/internal/pkg/apperror"
	"notehub-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps service errors to the taxonomy statuses. Anything
// outside the taxonomy becomes a generic 500 without internal detail.
func NewErrorHandler(sysLogger logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			code := appErr.StatusCode()
			if appErr.Kind == apperror.KindInternal {
				sysLogger.Error("http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"error": appErr.Error(),
				})
				return ctx.Status(code).JSON(ErrorResponse(code, "Server Error"))
			}
			return ctx.Status(code).JSON(ErrorResponse(code, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		sysLogger.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Server Error"))
	}
}
