package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizbank-backend/internal/model"
)

const accountColumns = `id, name, email, password_hash, is_admin, address, phone, created_at`

// AccountRepository handles account profile data access.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.IsAdmin, &a.Address, &a.Phone, &a.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Create inserts a new account profile.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, name, email, password_hash, is_admin, address, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.IsAdmin, a.Address, a.Phone,
	).Scan(&a.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID returns the account with the given id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

// GetByEmail returns the account registered with the given email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

// List returns every account, administrators included, oldest first.
func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Update applies a partial update. Nil fields keep their stored value.
func (r *AccountRepository) Update(ctx context.Context, id string, u model.AccountUpdate) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET
		     name = COALESCE($2, name),
		     email = COALESCE($3, email),
		     password_hash = COALESCE($4, password_hash),
		     address = COALESCE($5, address),
		     phone = COALESCE($6, phone)
		 WHERE id = $1`,
		id, u.Name, u.Email, u.PasswordHash, u.Address, u.Phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdmin flips the administrator flag of the account with the given email.
func (r *AccountRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET is_admin = $2 WHERE email = $1`, email, isAdmin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account. Its assignments cascade.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
