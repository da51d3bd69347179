package compare

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
)

// MaxPromptLen is the longest accepted prompt, in runes, counted before
// surrounding whitespace is trimmed.
const MaxPromptLen = 2000

// ErrInvalidPrompt is returned for empty or over-long prompts.
var ErrInvalidPrompt = errors.New("invalid prompt")

// #region triggers
const (
	TriggerHTTP = "http"
	TriggerCLI  = "cli"
)

// #endregion triggers

// #region config
// Config holds the models to compare and how to call them.
type Config struct {
	ModelA       string
	ModelB       string
	ModelTimeout time.Duration // per attempt
	Attempts     int           // total attempts per model call, at least 1
}

// DefaultConfig mirrors the environment defaults.
func DefaultConfig() Config {
	return Config{
		ModelA:       "gpt-4o-mini",
		ModelB:       "gpt-4o-mini",
		ModelTimeout: 30 * time.Second,
		Attempts:     2,
	}
}

// #endregion config

// #region result
// Result is what a caller sees after a stored comparison.
type Result struct {
	RunID             string      `json:"run_id"`
	ResponseA         string      `json:"response_a"`
	ResponseB         string      `json:"response_b"`
	DisagreementScore float64     `json:"disagreement_score"`
	Flags             []risk.Flag `json:"flags"`
}

// #endregion result

// #region model-error
// ModelError reports which response slot failed.
type ModelError struct {
	Slot  string // "a" | "b"
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s (%s): %v", e.Slot, e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// #endregion model-error
