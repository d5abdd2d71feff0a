package dto

import "time"

type ModerationCheckRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId,omitempty"`
}

type ModerationVerdictResponse struct {
	Flagged    bool     `json:"flagged"`
	Reasons    []string `json:"reasons"`
	Confidence float64  `json:"confidence"`
	Action     string   `json:"action"`
	Message    string   `json:"message,omitempty"`
}

type WarningResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    int       `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

type WarningsSummaryResponse struct {
	Count    int               `json:"count"`
	Warnings []WarningResponse `json:"warnings"`
}

type ModerationLogResponse struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id,omitempty"`
	Content     string    `json:"content"`
	Flagged     bool      `json:"flagged"`
	Reasons     []string  `json:"reasons"`
	Confidence  float64   `json:"confidence"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}
