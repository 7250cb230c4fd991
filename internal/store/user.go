package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/manraj-ms/accounts-api/types"
)

const uniqueViolationCode = "23505"

// UserRepository handles persistence for users and their session ledgers.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, name, email, address, password_hash, mobile_number, session_tokens, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, name, email, address, password_hash, mobile_number, session_tokens, created_at, updated_at
		FROM users
		WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.SessionTokens == nil {
		user.SessionTokens = []string{}
	}

	const query = `
		INSERT INTO users (name, email, address, password_hash, mobile_number, session_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.Address,
		user.PasswordHash,
		user.MobileNumber,
		pq.Array(user.SessionTokens),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return types.User{}, ErrDuplicateEmail
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) ListByMobileNumber(ctx context.Context, mobileNumber string) ([]types.User, error) {
	const query = `
		SELECT id, name, email, address, password_hash, mobile_number, session_tokens, created_at, updated_at
		FROM users
		WHERE mobile_number = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, mobileNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, name, email, address, password_hash, mobile_number, session_tokens, created_at, updated_at
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// AppendSessionToken adds a token to the user's session ledger. The
// append is a single UPDATE, so concurrent logins for the same user
// cannot lose each other's tokens.
func (r *UserRepository) AppendSessionToken(ctx context.Context, id int, token string) error {
	const query = `
		UPDATE users
		SET session_tokens = array_append(session_tokens, $2),
			updated_at = $3
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, token, time.Now())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSessionToken removes a token from the user's session ledger and
// reports whether a removal occurred. The guard on the WHERE clause
// keeps the read-modify-write atomic.
func (r *UserRepository) RemoveSessionToken(ctx context.Context, id int, token string) (bool, error) {
	const query = `
		UPDATE users
		SET session_tokens = array_remove(session_tokens, $2),
			updated_at = $3
		WHERE id = $1 AND $2 = ANY(session_tokens)`
	result, err := r.db.ExecContext(ctx, query, id, token, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Address,
		&user.PasswordHash,
		&user.MobileNumber,
		pq.Array(&user.SessionTokens),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) scanAll(rows *sql.Rows) ([]types.User, error) {
	users := []types.User{}
	for rows.Next() {
		var user types.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Address,
			&user.PasswordHash,
			&user.MobileNumber,
			pq.Array(&user.SessionTokens),
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
