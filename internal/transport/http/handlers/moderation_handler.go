package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
	authsvc "github.com/ivankudzin/worklance/backend/internal/services/auth"
	modsvc "github.com/ivankudzin/worklance/backend/internal/services/moderation"
	ratesvc "github.com/ivankudzin/worklance/backend/internal/services/rate"
	"github.com/ivankudzin/worklance/backend/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/worklance/backend/internal/transport/http/errors"
)

type ModerationHandler struct {
	service          *modsvc.Service
	limiter          *ratesvc.Limiter
	warningsPageSize int
}

func NewModerationHandler(service *modsvc.Service, limiter *ratesvc.Limiter, warningsPageSize int) *ModerationHandler {
	if warningsPageSize <= 0 {
		warningsPageSize = 20
	}

	return &ModerationHandler{
		service:          service,
		limiter:          limiter,
		warningsPageSize: warningsPageSize,
	}
}

func (h *ModerationHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowCheck(r.Context(), identity.UserID)
		if err != nil {
			httperrors.Write(w, http.StatusServiceUnavailable, httperrors.APIError{
				Error: "moderation check is temporarily unavailable",
				Code:  "TEMP_UNAVAILABLE",
			})
			return
		}
		if !allowed {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Error:         "too many moderation checks",
				Code:          "RATE_LIMITED",
				RetryAfterSec: retryAfter,
			})
			return
		}
	}

	var req dto.ModerationCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	verdict, err := h.service.Check(r.Context(), identity.UserID, enums.ContentType(req.ContentType), req.Content, req.ContentID)
	if err != nil {
		switch {
		case errors.Is(err, modsvc.ErrInvalidInput):
			writeBadRequest(w, "INVALID_REQUEST", "content is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "moderation check failed")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, verdictToDTO(verdict))
}

func (h *ModerationHandler) Warnings(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	summary, err := h.service.Warnings(r.Context(), identity.UserID, h.warningsPageSize)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load warnings")
		return
	}

	warnings := make([]dto.WarningResponse, 0, len(summary.Warnings))
	for _, warning := range summary.Warnings {
		warnings = append(warnings, dto.WarningResponse{
			ID:          warning.ID,
			Type:        warning.Type,
			Description: warning.Description,
			Severity:    warning.Severity,
			CreatedAt:   warning.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.WarningsSummaryResponse{
		Count:    summary.Count,
		Warnings: warnings,
	})
}

func (h *ModerationHandler) AdminLogs(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	flaggedOnly := r.URL.Query().Get("flagged") == "true"

	entries, err := h.service.RecentLogs(r.Context(), limit, flaggedOnly)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load moderation logs")
		return
	}

	out := make([]dto.ModerationLogResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.ModerationLogResponse{
			ID:          entry.ID,
			UserID:      entry.UserID,
			ContentType: string(entry.ContentType),
			ContentID:   entry.ContentID,
			Content:     entry.Content,
			Flagged:     entry.Flagged,
			Reasons:     categoriesToStrings(entry.Reasons),
			Confidence:  entry.Confidence,
			Action:      string(entry.Action),
			CreatedAt:   entry.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, out)
}

func verdictToDTO(verdict model.Verdict) dto.ModerationVerdictResponse {
	return dto.ModerationVerdictResponse{
		Flagged:    verdict.Flagged,
		Reasons:    categoriesToStrings(verdict.Reasons),
		Confidence: verdict.Confidence,
		Action:     string(verdict.Action),
		Message:    verdict.Message,
	}
}

func categoriesToStrings(tags []enums.Category) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, string(tag))
	}
	return out
}
