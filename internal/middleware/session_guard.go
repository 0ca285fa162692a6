package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/bank_portal/internal/session"
	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

// RequireSession rejects requests unless the shell holds a session of kind.
func RequireSession(shell *session.Shell, kind tokenstore.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := shell.Require(kind); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in as "+string(kind)+" to continue")
		}
		return c.Next()
	}
}
