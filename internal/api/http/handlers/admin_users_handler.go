package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/dto"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/observability"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
)

// AdminHandler exposes user role management and service metrics.
type AdminHandler struct {
	users     *service.UserService
	metrics   *observability.Metrics
	validator *validation.Validator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, metrics *observability.Metrics, validator *validation.Validator) *AdminHandler {
	return &AdminHandler{users: users, metrics: metrics, validator: validator}
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var query dto.UserListQuery
	if err := parseQuery(c, h.validator, &query); err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), auth.ActorFromContext(c), service.UserFilter{
		Role:   domain.RoleFilter(query.Role),
		Search: query.Search,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// SetAdmin PUT /api/admin/users/:id/admin.
func (h *AdminHandler) SetAdmin(c *fiber.Ctx) error {
	var req dto.SetAdminRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.users.SetAdmin(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), *req.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(*user))
}

// Deactivate POST /api/admin/users/:id/deactivate.
func (h *AdminHandler) Deactivate(c *fiber.Ctx) error {
	user, err := h.users.Deactivate(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(*user))
}

// Metrics GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
