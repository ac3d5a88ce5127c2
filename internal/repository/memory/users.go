package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
)

// AccountRepository stores accounts keyed by id with an email index.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
	}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[account.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	account := r.byID[id]
	return &account, nil
}

func (r *AccountRepository) ListByIDs(_ context.Context, ids []string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		if account, ok := r.byID[id]; ok {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *AccountRepository) TouchLastSignIn(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.LastSignInAt = &at
	r.byID[id] = account
	return nil
}

func (r *AccountRepository) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.byID[id]; ok {
		delete(r.byEmail, account.Email)
		delete(r.byID, id)
	}
}

// UserRegistrar writes an account and then its profile, removing the account
// again when the profile cannot be stored.
type UserRegistrar struct {
	accounts *AccountRepository
	profiles repository.ProfileRepository
}

func NewUserRegistrar(accounts *AccountRepository, profiles repository.ProfileRepository) *UserRegistrar {
	return &UserRegistrar{accounts: accounts, profiles: profiles}
}

var _ repository.UserRegistrar = (*UserRegistrar)(nil)

func (r *UserRegistrar) Register(ctx context.Context, account *domain.Account, profile *domain.Profile) error {
	if err := r.accounts.Create(ctx, account); err != nil {
		return err
	}
	if err := r.profiles.Create(ctx, profile); err != nil {
		r.accounts.remove(account.ID)
		return err
	}
	return nil
}

// ProfileRepository stores profiles keyed by id.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]domain.Profile)}
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Create(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := r.lookup(id)
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &profile, nil
}

func (r *ProfileRepository) List(_ context.Context, role domain.RoleFilter) ([]domain.Profile, error) {
	r.mu.RLock()
	result := make([]domain.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		if role.Matches(profile.IsAdmin) {
			result = append(result, profile)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ProfileRepository) SetAdmin(_ context.Context, id string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	profile.IsAdmin = isAdmin
	r.profiles[id] = profile
	return nil
}

func (r *ProfileRepository) lookup(id string) (domain.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	return profile, ok
}
