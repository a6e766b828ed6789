package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/thienan2003bt/awp-user-registration-be/internal/auth/domain"
	autherror "github.com/thienan2003bt/awp-user-registration-be/internal/errors"
)

// PgxIface is the subset of *pgxpool.Pool the repository uses; pgxmock pools
// satisfy it too.
type PgxIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, username, password_hash, current_refresh_token, created_at, updated_at`

func (r *PostgresRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 OR username = $2
		LIMIT 1;
	`
	return r.getOne(ctx, query, email, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
		LIMIT 1;
	`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
		LIMIT 1;
	`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, query, args...)

	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash,
		&a.CurrentRefreshToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO accounts (id, email, username, password_hash, current_refresh_token, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, account.ID, account.Email, account.Username, account.PasswordHash,
		account.CurrentRefreshToken, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET current_refresh_token = $2, updated_at = now()
		WHERE id = $1
	`, id, token)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	return nil
}

// RotateRefreshToken swaps the slot only while it still holds current. The
// WHERE clause makes the read-compare-write a single atomic statement, so of
// two racing rotations with the same stale token exactly one affects a row.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, id, current, next string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET current_refresh_token = $3, updated_at = now()
		WHERE id = $1 AND current_refresh_token = $2
	`, id, current, next)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrAccessDenied
	}

	return nil
}
