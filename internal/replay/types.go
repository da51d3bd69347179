package replay

import "github.com/danielpatrickdp/risk-explorer/internal/risk"

// #region types
// Expectation is the reference result a case is checked against. A nil Score
// skips the score comparison.
type Expectation struct {
	Score *float64
	Flags []risk.Flag
}

// Case is one response pair to rescore.
type Case struct {
	ID    string
	Input risk.Input

	// Expected is nil when no reference result is available.
	Expected *Expectation

	// CarryOver lists flag types taken from Expected instead of recomputed,
	// for rules whose input is missing (stored runs keep no prompt).
	CarryOver []risk.FlagType

	// Note explains why Expected is nil.
	Note string
}

// Outcome is the rescoring result for one case.
type Outcome struct {
	ID         string
	Assessment risk.Assessment
	Checked    bool
	Match      bool
	Drift      []string // human-readable differences, empty on match
	Note       string
}

// Summary aggregates a rescoring run.
type Summary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Drifted   int `json:"drifted"`
	Unchecked int `json:"unchecked"`
}

// #endregion types
