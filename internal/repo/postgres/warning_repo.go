package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

type WarningRepo struct {
	pool *pgxpool.Pool
}

func NewWarningRepo(pool *pgxpool.Pool) *WarningRepo {
	return &WarningRepo{pool: pool}
}

func (r *WarningRepo) Insert(ctx context.Context, warning model.UserWarning) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if warning.UserID <= 0 || strings.TrimSpace(warning.Type) == "" {
		return fmt.Errorf("invalid user warning payload")
	}
	if warning.Severity < 1 || warning.Severity > 3 {
		return fmt.Errorf("invalid warning severity %d", warning.Severity)
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO user_warnings (
	user_id,
	warning_type,
	description,
	severity,
	created_at
) VALUES ($1, $2, $3, $4, $5)
`, warning.UserID, warning.Type, warning.Description, warning.Severity, warning.CreatedAt); err != nil {
		return fmt.Errorf("insert user warning: %w", err)
	}

	return nil
}

func (r *WarningRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]model.UserWarning, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, warning_type, description, severity, created_at
FROM user_warnings
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user warnings: %w", err)
	}
	defer rows.Close()

	var warnings []model.UserWarning
	for rows.Next() {
		var w model.UserWarning
		if err := rows.Scan(&w.ID, &w.UserID, &w.Type, &w.Description, &w.Severity, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user warning row: %w", err)
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user warning rows: %w", err)
	}

	return warnings, nil
}
