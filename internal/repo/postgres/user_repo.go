package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
}

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return UserRecord{}, fmt.Errorf("email is required")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, role
FROM users
WHERE email = $1
`, normalized).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}
