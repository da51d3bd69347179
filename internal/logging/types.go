package logging

import "time"

// #region outcome
// Outcome classifies how a compare attempt ended.
type Outcome string

const (
	OutcomeStored        Outcome = "stored"
	OutcomeInvalidPrompt Outcome = "invalid_prompt"
	OutcomeModelError    Outcome = "model_error"
	OutcomeStoreError    Outcome = "store_error"
)

// #endregion outcome

// #region compare-entry
// CompareEntry is a single row in the compare_log table.
type CompareEntry struct {
	RunID       string // empty unless the run was stored
	PromptHash  string
	TriggerType string // "http" | "cli"
	Outcome     Outcome
	FlagsJSON   string
	Reason      string
	CreatedAt   time.Time
}

// #endregion compare-entry

// #region outcome-count
// OutcomeCount is one row of the per-outcome breakdown.
type OutcomeCount struct {
	Outcome Outcome `json:"outcome"`
	Count   int     `json:"count"`
}

// #endregion outcome-count
