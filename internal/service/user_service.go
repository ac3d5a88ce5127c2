package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/events"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/view"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// UserService manages administrator capability on user profiles.
type UserService struct {
	profiles repository.ProfileRepository
	accounts repository.AccountRepository
	events   eventEmitter
	logger   *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	ProfileRepo repository.ProfileRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Now         func() time.Time
}

// UserFilter describes the admin user listing.
type UserFilter struct {
	Role   domain.RoleFilter
	Search string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := loggerOrNop(deps.Logger)
	return &UserService{
		profiles: deps.ProfileRepo,
		accounts: deps.AccountRepo,
		events:   eventEmitter{dispatcher: deps.Dispatcher, logger: logger, now: clockOrDefault(deps.Now)},
		logger:   logger,
	}
}

func requireAdmin(actor *domain.Actor) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if !actor.IsAdmin {
		return apperrors.NewForbidden("administrator privileges required")
	}
	return nil
}

// List returns profiles joined with account metadata, newest first.
func (s *UserService) List(ctx context.Context, actor *domain.Actor, filter UserFilter) ([]domain.UserProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	role := filter.Role
	if role == "" {
		role = domain.RoleFilterAll
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role filter", map[string]any{
			"role": "must be one of all, admin, user",
		})
	}

	profiles, err := s.profiles.List(ctx, role)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list profiles", err)
	}

	ids := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.ID)
	}
	accounts, err := s.accounts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list accounts", err)
	}
	byID := make(map[string]*domain.Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID] = &accounts[i]
	}

	users := make([]domain.UserProfile, 0, len(profiles))
	for _, profile := range profiles {
		users = append(users, domain.JoinUserProfile(profile, byID[profile.ID]))
	}
	return view.UserView{Role: role, Search: strings.TrimSpace(filter.Search)}.Apply(users), nil
}

// Get returns one joined user profile.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if !isUUID(userID) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.FromStore("user", "load profile", err)
	}
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError("load account", err)
	}
	user := domain.JoinUserProfile(*profile, account)
	return &user, nil
}

// SetAdmin sets the admin flag. Setting the current value is a no-op.
func (s *UserService) SetAdmin(ctx context.Context, actor *domain.Actor, userID string, isAdmin bool) (*domain.UserProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin == isAdmin {
		return user, nil
	}

	if err := s.profiles.SetAdmin(ctx, userID, isAdmin); err != nil {
		return nil, apperrors.FromStore("user", "update profile", err)
	}
	user.IsAdmin = isAdmin

	s.logger.Info("user role changed",
		zap.String("user_id", userID),
		zap.Bool("is_admin", isAdmin),
		zap.String("admin_id", actor.UserID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserRoleChanged,
		SubjectID: userID,
		ActorID:   actor.UserID,
		Payload:   events.UserRoleChangedPayload{IsAdmin: isAdmin},
	})
	return user, nil
}

// Deactivate revokes admin capability. Sign-in is not blocked.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.Actor, userID string) (*domain.UserProfile, error) {
	return s.SetAdmin(ctx, actor, userID, false)
}
