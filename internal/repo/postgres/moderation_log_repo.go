package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

type ModerationLogRepo struct {
	pool *pgxpool.Pool
}

func NewModerationLogRepo(pool *pgxpool.Pool) *ModerationLogRepo {
	return &ModerationLogRepo{pool: pool}
}

func (r *ModerationLogRepo) Insert(ctx context.Context, entry model.ModerationLogEntry) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(entry.ID) == "" || entry.UserID <= 0 {
		return fmt.Errorf("invalid moderation log payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO moderation_logs (
	id,
	user_id,
	content_type,
	content_id,
	content,
	flagged,
	reasons,
	confidence,
	action,
	created_at
) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
`, entry.ID, entry.UserID, string(entry.ContentType), entry.ContentID, entry.Content,
		entry.Flagged, categoriesToStrings(entry.Reasons), entry.Confidence,
		string(entry.Action), entry.CreatedAt); err != nil {
		return fmt.Errorf("insert moderation log: %w", err)
	}

	return nil
}

func (r *ModerationLogRepo) ListRecent(ctx context.Context, limit int, flaggedOnly bool) ([]model.ModerationLogEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, content_type, COALESCE(content_id, ''), content, flagged, reasons, confidence, action, created_at
FROM moderation_logs
WHERE ($2 = FALSE OR flagged = TRUE)
ORDER BY created_at DESC
LIMIT $1
`, limit, flaggedOnly)
	if err != nil {
		return nil, fmt.Errorf("list moderation logs: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *ModerationLogRepo) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.ModerationLogEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, content_type, COALESCE(content_id, ''), content, flagged, reasons, confidence, action, created_at
FROM moderation_logs
WHERE created_at < $1
ORDER BY created_at ASC
LIMIT $2
`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale moderation logs: %w", err)
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func (r *ModerationLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM moderation_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale moderation logs: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanLogEntries(rows pgx.Rows) ([]model.ModerationLogEntry, error) {
	var entries []model.ModerationLogEntry
	for rows.Next() {
		var (
			entry       model.ModerationLogEntry
			contentType string
			action      string
			reasons     []string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &contentType, &entry.ContentID, &entry.Content,
			&entry.Flagged, &reasons, &entry.Confidence, &action, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation log row: %w", err)
		}
		entry.ContentType = enums.ContentType(contentType)
		entry.Action = enums.Action(action)
		entry.Reasons = stringsToCategories(reasons)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation log rows: %w", err)
	}

	return entries, nil
}

func categoriesToStrings(tags []enums.Category) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, string(tag))
	}
	return out
}

func stringsToCategories(values []string) []enums.Category {
	if len(values) == 0 {
		return nil
	}
	out := make([]enums.Category, 0, len(values))
	for _, v := range values {
		out = append(out, enums.Category(v))
	}
	return out
}
