package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Struct(out)
}

func parseQuery(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	return v.Struct(out)
}
