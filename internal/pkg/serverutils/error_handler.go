package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"ai-research-hub-be/pkg/store"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the
// uniform JSON envelope, mapping pipeline error kinds to HTTP codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := statusForKind(store.KindOf(err))
		log.Printf("[ERROR] request failed: %v", err)
		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}

func statusForKind(kind store.ErrorKind) int {
	switch kind {
	case store.KindNoEvidenceFound:
		return fiber.StatusNotFound
	case store.KindRetrievalUnavailable:
		return fiber.StatusServiceUnavailable
	case store.KindGenerationFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
