package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// IncrementWarnings bumps the cumulative warning counter on the actor's
// profile. The upsert keeps the increment atomic at the database, so
// concurrent enforced verdicts for one user cannot lose updates.
func (r *ProfileRepo) IncrementWarnings(ctx context.Context, userID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	warnings_count,
	updated_at
) VALUES ($1, 1, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	warnings_count = profiles.warnings_count + 1,
	updated_at = NOW()
`, userID); err != nil {
		return fmt.Errorf("increment warnings counter: %w", err)
	}

	return nil
}

func (r *ProfileRepo) WarningsCount(ctx context.Context, userID int64) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(warnings_count, 0)
FROM profiles
WHERE user_id = $1
`, userID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read warnings counter: %w", err)
	}

	return count, nil
}
