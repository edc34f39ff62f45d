// FILE: internal/pkg/serverutils/session_middleware.go
package serverutils

import (
	"assembly-guide-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
)

const SessionHeader = "X-Session-Id"

// SessionMiddleware resolves the opaque session id header against the
// in-memory store and parks the session on the request locals.
func SessionMiddleware(sessions *memory.SessionRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Get(SessionHeader)
		if id == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing session id"})
		}

		session, found := sessions.Get(id)
		if !found {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired session"})
		}

		// Refresh the idle TTL on every authenticated request.
		sessions.Save(session)

		ctx.Locals("session", session)
		return ctx.Next()
	}
}
