package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts    repository.AccountRepository
	profiles    repository.ProfileRepository
	registrar   repository.UserRegistrar
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	minPassword int
	now         func() time.Time
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
	Registrar   repository.UserRegistrar
	Logger      *zap.Logger
	Now         func() time.Time
}

// Session is the result of a successful register or login.
type Session struct {
	User      domain.UserProfile
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:    deps.AccountRepo,
		profiles:    deps.ProfileRepo,
		registrar:   deps.Registrar,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost:  cfg.BcryptCost,
		minPassword: cfg.MinPasswordLength,
		now:         clockOrDefault(deps.Now),
		logger:      loggerOrNop(deps.Logger),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a non-admin account and returns a signed session.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	user, err := s.createAccount(ctx, email, password, fullName, false)
	if err != nil {
		return nil, err
	}
	return s.issue(*user)
}

func (s *AuthService) createAccount(ctx context.Context, email, password, fullName string, isAdmin bool) (*domain.UserProfile, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	details := map[string]any{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details["email"] = "email must be a valid email address"
	}
	if len(password) < s.minPassword {
		details["password"] = "password is too short"
	} else if len(password) > auth.MaxPasswordBytes {
		details["password"] = "password is too long"
	}
	if fullName == "" {
		details["fullName"] = "this field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError("load account", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	profile := &domain.Profile{
		ID:        account.ID,
		FullName:  fullName,
		IsAdmin:   isAdmin,
		CreatedAt: now,
	}
	if err := s.registrar.Register(ctx, account, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.NewPersistenceError("register account", err)
	}

	s.logger.Info("account registered", zap.String("user_id", account.ID), zap.Bool("is_admin", isAdmin))
	user := domain.JoinUserProfile(*profile, account)
	return &user, nil
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, apperrors.NewPersistenceError("load account", err)
	}
	if ok, err := auth.VerifyPassword(account.PasswordHash, password); err != nil {
		s.logger.Error("stored password hash unreadable", zap.String("user_id", account.ID), zap.Error(err))
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	} else if !ok {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, apperrors.NewPersistenceError("load profile", err)
	}

	now := s.now()
	if err := s.accounts.TouchLastSignIn(ctx, account.ID, now); err != nil {
		s.logger.Warn("update last sign-in failed", zap.String("user_id", account.ID), zap.Error(err))
	} else {
		account.LastSignInAt = &now
	}

	return s.issue(domain.JoinUserProfile(*profile, account))
}

// Me returns the joined profile for the authenticated principal.
func (s *AuthService) Me(ctx context.Context, principal *auth.Principal) (*domain.UserProfile, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	profile, err := s.profiles.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, apperrors.FromStore("user", "load profile", err)
	}
	account, err := s.accounts.GetByID(ctx, principal.UserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError("load account", err)
	}
	user := domain.JoinUserProfile(*profile, account)
	return &user, nil
}

// BootstrapAdmin ensures the configured administrator exists and holds the
// admin flag. An existing account keeps its password.
func (s *AuthService) BootstrapAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if !cfg.Enabled() {
		return nil
	}

	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(cfg.Email))
	switch {
	case err == nil:
		if err := s.profiles.SetAdmin(ctx, account.ID, true); err != nil {
			return apperrors.FromStore("user", "promote admin", err)
		}
		s.logger.Info("bootstrap admin present", zap.String("user_id", account.ID))
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		user, err := s.createAccount(ctx, cfg.Email, cfg.Password, cfg.FullName, true)
		if err != nil {
			return err
		}
		s.logger.Info("bootstrap admin created", zap.String("user_id", user.ID))
		return nil
	default:
		return apperrors.NewPersistenceError("load account", err)
	}
}

func (s *AuthService) issue(user domain.UserProfile) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}
