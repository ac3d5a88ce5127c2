package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// RequireAdmin ensures the authenticated caller holds the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !principal.IsAdmin {
			return apperrors.NewForbidden("administrator privileges required")
		}
		return c.Next()
	}
}
