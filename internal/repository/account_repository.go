package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// ErrDuplicateEmail is returned when an account email is already taken.
var ErrDuplicateEmail = errors.New("duplicate account email")

const uniqueViolation = "23505"

// AccountRepository defines persistence access for sign-in accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error)
	TouchLastSignIn(ctx context.Context, id string, at time.Time) error
}

// UserRegistrar stores a new account together with its profile. Either both
// rows are written or neither is.
type UserRegistrar interface {
	Register(ctx context.Context, account *domain.Account, profile *domain.Profile) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return insertAccount(ctx, r.pool, account)
}

func insertAccount(ctx context.Context, db execer, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, created_at, last_sign_in_at
        FROM accounts WHERE id=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, created_at, last_sign_in_at
        FROM accounts WHERE email=$1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Account, error) {
	if len(ids) == 0 {
		return []domain.Account{}, nil
	}
	const query = `
        SELECT id, email, password_hash, created_at, last_sign_in_at
        FROM accounts WHERE id = ANY($1::uuid[])`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) TouchLastSignIn(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE accounts SET last_sign_in_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.LastSignInAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

type userRegistrar struct {
	pool *pgxpool.Pool
}

// NewUserRegistrar returns a registrar writing both rows in one transaction.
func NewUserRegistrar(pool *pgxpool.Pool) UserRegistrar {
	return &userRegistrar{pool: pool}
}

func (r *userRegistrar) Register(ctx context.Context, account *domain.Account, profile *domain.Profile) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}
		return insertProfile(ctx, tx, profile)
	})
}
