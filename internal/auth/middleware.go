package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID   string
	Email    string
	FullName string
	IsAdmin  bool
}

// Actor converts the principal to the service-level caller identity.
func (p *Principal) Actor() *domain.Actor {
	if p == nil {
		return nil
	}
	return &domain.Actor{UserID: p.UserID, IsAdmin: p.IsAdmin}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts repository.AccountRepository, profiles repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts, profiles: profiles}
}

// Handle enforces authentication for protected routes. Admin capability comes
// from the stored profile, never from the token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	ctx := c.UserContext()
	account, err := m.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("account not found")
		}
		return apperrors.NewPersistenceError("load account", err)
	}
	profile, err := m.profiles.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("profile not found")
		}
		return apperrors.NewPersistenceError("load profile", err)
	}

	c.Locals(principalKey, &Principal{
		UserID:   profile.ID,
		Email:    account.Email,
		FullName: profile.FullName,
		IsAdmin:  profile.IsAdmin,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// ActorFromContext returns the caller as a service actor, or nil when the
// request is anonymous.
func ActorFromContext(c *fiber.Ctx) *domain.Actor {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Actor()
}
