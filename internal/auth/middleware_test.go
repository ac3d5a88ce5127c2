package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository/memory"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

func newProtectedApp(t *testing.T, isAdmin bool) (*fiber.App, *TokenManager, *memory.ProfileRepository) {
	t.Helper()
	ctx := context.Background()
	accounts := memory.NewAccountRepository()
	profiles := memory.NewProfileRepository()
	now := time.Now()
	require.NoError(t, accounts.Create(ctx, &domain.Account{ID: "u1", Email: "u1@example.com", CreatedAt: now}))
	require.NoError(t, profiles.Create(ctx, &domain.Profile{ID: "u1", FullName: "Uma", IsAdmin: isAdmin, CreatedAt: now}))

	tokens := NewTokenManager("secret", 10)
	mw := NewAuthMiddleware(tokens, accounts, profiles)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.FullName)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, tokens, profiles
}

func doGet(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddlewareLoadsPrincipal(t *testing.T) {
	app, tokens, _ := newProtectedApp(t, false)
	token, _, err := tokens.GenerateToken("u1", "u1@example.com", false)
	require.NoError(t, err)

	status, body := doGet(t, app, "/me", token)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Uma", body)
}

func TestAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	app, _, _ := newProtectedApp(t, false)

	status, body := doGet(t, app, "/me", "")
	assert.Equal(t, 401, status)
	assert.Equal(t, apperrors.CodeUnauthenticated, body)

	status, _ = doGet(t, app, "/me", "garbage")
	assert.Equal(t, 401, status)
}

func TestAuthMiddlewareRejectsUnknownAccount(t *testing.T) {
	app, tokens, _ := newProtectedApp(t, false)
	token, _, err := tokens.GenerateToken("ghost", "ghost@example.com", true)
	require.NoError(t, err)

	status, _ := doGet(t, app, "/me", token)
	assert.Equal(t, 401, status)
}

func TestRequireAdminUsesStoredFlag(t *testing.T) {
	app, tokens, profiles := newProtectedApp(t, false)

	// A token claiming admin does not grant access while the profile is not admin.
	token, _, err := tokens.GenerateToken("u1", "u1@example.com", true)
	require.NoError(t, err)
	status, body := doGet(t, app, "/admin", token)
	assert.Equal(t, 403, status)
	assert.Equal(t, apperrors.CodeForbidden, body)

	require.NoError(t, profiles.SetAdmin(context.Background(), "u1", true))
	status, _ = doGet(t, app, "/admin", token)
	assert.Equal(t, 200, status)
}
