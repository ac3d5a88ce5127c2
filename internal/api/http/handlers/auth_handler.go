package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/dto"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
)

// AuthHandler exposes registration, login and the current-user endpoint.
type AuthHandler struct {
	service   *service.AuthService
	validator *validation.Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{service: authService, validator: validator}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	session, err := h.service.Register(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse(session))
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(session))
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	user, err := h.service.Me(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(*user))
}

func authResponse(session *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		User:      dto.NewUserResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
