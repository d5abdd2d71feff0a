package model

import (
	"time"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
)

// Verdict is the outcome of one classification run. Message is set only
// when Action is not ActionNone.
type Verdict struct {
	Flagged    bool
	Reasons    []enums.Category
	Confidence float64
	Action     enums.Action
	Message    string
}

// ModerationLogEntry is the append-only audit record written for every
// gateway check, flagged or not.
type ModerationLogEntry struct {
	ID          string
	UserID      int64
	ContentType enums.ContentType
	ContentID   string
	Content     string
	Flagged     bool
	Reasons     []enums.Category
	Confidence  float64
	Action      enums.Action
	CreatedAt   time.Time
}

// UserWarning is written once per enforced verdict.
type UserWarning struct {
	ID          int64
	UserID      int64
	Type        string
	Description string
	Severity    int
	CreatedAt   time.Time
}
