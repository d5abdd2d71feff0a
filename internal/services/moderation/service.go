package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
	"github.com/ivankudzin/worklance/backend/internal/domain/rules"
)

var ErrInvalidInput = errors.New("invalid moderation input")

type LogStore interface {
	Insert(ctx context.Context, entry model.ModerationLogEntry) error
	ListRecent(ctx context.Context, limit int, flaggedOnly bool) ([]model.ModerationLogEntry, error)
}

type WarningStore interface {
	Insert(ctx context.Context, warning model.UserWarning) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.UserWarning, error)
}

type ProfileStore interface {
	IncrementWarnings(ctx context.Context, userID int64) error
	WarningsCount(ctx context.Context, userID int64) (int, error)
}

type Dependencies struct {
	Logs     LogStore
	Warnings WarningStore
	Profiles ProfileStore
	Logger   *zap.Logger
}

// Service is the authoritative moderation entry point: it classifies
// content, keeps the audit trail and applies progressive discipline.
type Service struct {
	logs     LogStore
	warnings WarningStore
	profiles ProfileStore
	logger   *zap.Logger
	now      func() time.Time
}

type WarningsSummary struct {
	Count    int
	Warnings []model.UserWarning
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logs:     deps.Logs,
		warnings: deps.Warnings,
		profiles: deps.Profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Check classifies content and records the outcome. Audit writes are
// best-effort: a storage hiccup never withholds the computed verdict,
// it only leaves a gap in the trail (and a line in the ops log).
func (s *Service) Check(ctx context.Context, userID int64, contentType enums.ContentType, content, contentID string) (model.Verdict, error) {
	if userID <= 0 {
		return model.Verdict{}, ErrInvalidInput
	}
	if !contentType.Valid() {
		return model.Verdict{}, ErrInvalidInput
	}
	if strings.TrimSpace(content) == "" {
		return model.Verdict{}, ErrInvalidInput
	}
	if s.logs == nil || s.warnings == nil || s.profiles == nil {
		return model.Verdict{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	verdict := rules.Evaluate(content)

	entry := model.ModerationLogEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ContentType: contentType,
		ContentID:   contentID,
		Content:     content,
		Flagged:     verdict.Flagged,
		Reasons:     verdict.Reasons,
		Confidence:  verdict.Confidence,
		Action:      verdict.Action,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Warn("persist moderation log failed",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("content_type", string(contentType)),
		)
	}

	if verdict.Flagged && verdict.Action != enums.ActionNone {
		s.applyDiscipline(ctx, userID, verdict)
	}

	return verdict, nil
}

func (s *Service) Warnings(ctx context.Context, userID int64, limit int) (WarningsSummary, error) {
	if userID <= 0 {
		return WarningsSummary{}, ErrInvalidInput
	}
	if s.warnings == nil || s.profiles == nil {
		return WarningsSummary{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	count, err := s.profiles.WarningsCount(ctx, userID)
	if err != nil {
		return WarningsSummary{}, fmt.Errorf("read warnings counter: %w", err)
	}

	warnings, err := s.warnings.ListRecent(ctx, userID, limit)
	if err != nil {
		return WarningsSummary{}, fmt.Errorf("list warnings: %w", err)
	}

	return WarningsSummary{Count: count, Warnings: warnings}, nil
}

func (s *Service) RecentLogs(ctx context.Context, limit int, flaggedOnly bool) ([]model.ModerationLogEntry, error) {
	if s.logs == nil {
		return nil, fmt.Errorf("moderation service dependencies are not configured")
	}
	return s.logs.ListRecent(ctx, limit, flaggedOnly)
}

func (s *Service) applyDiscipline(ctx context.Context, userID int64, verdict model.Verdict) {
	warning := model.UserWarning{
		UserID:      userID,
		Type:        joinReasons(verdict.Reasons),
		Description: verdict.Message,
		Severity:    verdict.Action.Severity(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.warnings.Insert(ctx, warning); err != nil {
		s.logger.Warn("persist user warning failed", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	if err := s.profiles.IncrementWarnings(ctx, userID); err != nil {
		s.logger.Warn("increment warnings counter failed", zap.Error(err), zap.Int64("user_id", userID))
	}
}

func joinReasons(reasons []enums.Category) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}
