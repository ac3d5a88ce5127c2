package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository/memory"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.Auth.Register(ctx, "  Nora@Example.com ", "password123", " Nora ")
	require.NoError(t, err)
	assert.Equal(t, "nora@example.com", session.User.Email)
	assert.Equal(t, "Nora", session.User.FullName)
	assert.False(t, session.User.IsAdmin)
	assert.NotEmpty(t, session.Token)

	claims, err := f.Auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.Subject)

	login, err := f.Auth.Login(ctx, "NORA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
	assert.True(t, login.User.LastSignInAt.After(login.User.CreatedAt))

	account, err := f.accounts.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	require.NotNil(t, account.LastSignInAt)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.Auth.Register(ctx, "dup@example.com", "password123", "Dup")
	require.NoError(t, err)

	_, err = f.Auth.Register(ctx, "DUP@example.com", "password123", "Dup Again")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = f.Auth.Register(ctx, "not-an-email", "short", "")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "password")
	assert.Contains(t, domainErr.Details, "fullName")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.Auth.Register(ctx, "kim@example.com", "password123", "Kim")
	require.NoError(t, err)

	_, err = f.Auth.Login(ctx, "kim@example.com", "wrong-password")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))

	_, err = f.Auth.Login(ctx, "nobody@example.com", "password123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.Auth.Register(ctx, "me@example.com", "password123", "Me")
	require.NoError(t, err)

	user, err := f.Auth.Me(ctx, &auth.Principal{UserID: session.User.ID})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = f.Auth.Me(ctx, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestBootstrapAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := config.AdminConfig{Email: "boss@example.com", Password: "supersecret", FullName: "Boss"}

	require.NoError(t, f.Auth.BootstrapAdmin(ctx, cfg))
	session, err := f.Auth.Login(ctx, "boss@example.com", "supersecret")
	require.NoError(t, err)
	assert.True(t, session.User.IsAdmin)

	// Running again is harmless and re-promotes a demoted admin.
	require.NoError(t, f.profiles.SetAdmin(ctx, session.User.ID, false))
	require.NoError(t, f.Auth.BootstrapAdmin(ctx, cfg))
	profile, err := f.profiles.GetByID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin)

	assert.NoError(t, f.Auth.BootstrapAdmin(ctx, config.AdminConfig{}))
}

// flakyProfiles fails a fixed number of inserts before delegating.
type flakyProfiles struct {
	*memory.ProfileRepository
	failures int
}

func (p *flakyProfiles) Create(ctx context.Context, profile *domain.Profile) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("profiles down")
	}
	return p.ProfileRepository.Create(ctx, profile)
}

func TestRegisterLeavesNoAccountWhenProfileInsertFails(t *testing.T) {
	ctx := context.Background()
	accounts := memory.NewAccountRepository()
	profiles := &flakyProfiles{ProfileRepository: memory.NewProfileRepository(), failures: 1}
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
		MinPasswordLength:     8,
	}, AuthDependencies{
		AccountRepo: accounts,
		ProfileRepo: profiles,
		Registrar:   memory.NewUserRegistrar(accounts, profiles),
	})

	_, err := svc.Register(ctx, "lena@example.com", "password123", "Lena")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePersistence))

	_, err = accounts.GetByEmail(ctx, "lena@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	session, err := svc.Register(ctx, "lena@example.com", "password123", "Lena")
	require.NoError(t, err)

	login, err := svc.Login(ctx, "lena@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}
