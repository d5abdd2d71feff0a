package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is the wire error shape: clients key off the error field,
// code is a stable machine-readable discriminator.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type RateLimitError struct {
	Error         string `json:"error"`
	Code          string `json:"code,omitempty"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
