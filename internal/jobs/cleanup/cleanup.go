package cleanup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/worklance/backend/internal/domain/model"
)

const archiveBatchSize = 1000

type logStore interface {
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.ModerationLogEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type archiver interface {
	PutJSON(ctx context.Context, objectKey string, payload []byte) error
}

// Job archives expired moderation log entries to object storage and then
// purges them from Postgres. Entries within the retention window are
// never touched.
type Job struct {
	logs      logStore
	archive   archiver
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New() *Job {
	return &Job{
		retention: 180 * 24 * time.Hour,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
}

func NewLogRetentionJob(logs logStore, archive archiver, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 180 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		logs:      logs,
		archive:   archive,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.logs == nil {
		return nil
	}

	cutoff := j.now().UTC().Add(-j.retention)

	for {
		entries, err := j.logs.ListOlderThan(ctx, cutoff, archiveBatchSize)
		if err != nil {
			return fmt.Errorf("list expired moderation logs: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		if j.archive != nil {
			payload, err := json.Marshal(entries)
			if err != nil {
				return fmt.Errorf("encode archive batch: %w", err)
			}
			objectKey := fmt.Sprintf("moderation-logs/%s.json", j.now().UTC().Format("20060102T150405.000000000"))
			if err := j.archive.PutJSON(ctx, objectKey, payload); err != nil {
				// Never purge rows that failed to archive.
				return fmt.Errorf("archive moderation logs: %w", err)
			}
		}

		// Delete up to the newest entry in the archived batch, so rows
		// listed after the snapshot are left for the next pass.
		batchCutoff := entries[len(entries)-1].CreatedAt.Add(time.Microsecond)
		if batchCutoff.After(cutoff) {
			batchCutoff = cutoff
		}
		deleted, err := j.logs.DeleteOlderThan(ctx, batchCutoff)
		if err != nil {
			return fmt.Errorf("purge expired moderation logs: %w", err)
		}

		j.logger.Info("moderation log retention pass completed",
			zap.Int("archived", len(entries)),
			zap.Int64("deleted", deleted),
		)

		if len(entries) < archiveBatchSize {
			break
		}
	}

	return nil
}

// RunLoop executes Run on a fixed interval until the context is
// cancelled.
func (j *Job) RunLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := j.Run(ctx); err != nil {
			j.logger.Warn("moderation log retention pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
