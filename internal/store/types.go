package store

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// #region run
// Run is one persisted comparison. The raw prompt is never stored, only its
// SHA-256 hex digest and length.
type Run struct {
	ID                string    `json:"run_id"`
	CreatedAt         time.Time `json:"created_at"`
	PromptHash        string    `json:"prompt_hash"`
	PromptLen         int       `json:"prompt_len"`
	ModelA            string    `json:"model_a"`
	ModelB            string    `json:"model_b"`
	ResponseA         string    `json:"response_a"`
	ResponseB         string    `json:"response_b"`
	DisagreementScore float64   `json:"disagreement_score"`
	RiskJSON          string    `json:"risk_json"`
}

// #endregion run
