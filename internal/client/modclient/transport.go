package modclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ivankudzin/worklance/backend/internal/domain/enums"
	"github.com/ivankudzin/worklance/backend/internal/domain/model"
	"github.com/ivankudzin/worklance/backend/internal/infra/httpclient"
	"github.com/ivankudzin/worklance/backend/internal/transport/http/dto"
)

const checkPath = "/v1/moderation/check"

// HTTPChecker talks to the moderation gateway over its JSON API.
type HTTPChecker struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPChecker(baseURL, token string, client *http.Client) *HTTPChecker {
	if client == nil {
		client = httpclient.New(10 * time.Second)
	}

	return &HTTPChecker{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

func (c *HTTPChecker) Check(ctx context.Context, contentType, content string) (model.Verdict, error) {
	payload, err := json.Marshal(dto.ModerationCheckRequest{
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		return model.Verdict{}, fmt.Errorf("encode check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkPath, bytes.NewReader(payload))
	if err != nil {
		return model.Verdict{}, fmt.Errorf("build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("call moderation gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Verdict{}, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			return model.Verdict{}, fmt.Errorf("moderation gateway: %s", apiErr.Error)
		}
		return model.Verdict{}, fmt.Errorf("moderation gateway: status %d", resp.StatusCode)
	}

	var verdict dto.ModerationVerdictResponse
	if err := json.Unmarshal(body, &verdict); err != nil {
		return model.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	reasons := make([]enums.Category, 0, len(verdict.Reasons))
	for _, reason := range verdict.Reasons {
		reasons = append(reasons, enums.Category(reason))
	}

	return model.Verdict{
		Flagged:    verdict.Flagged,
		Reasons:    reasons,
		Confidence: verdict.Confidence,
		Action:     enums.Action(verdict.Action),
		Message:    verdict.Message,
	}, nil
}
