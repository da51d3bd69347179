package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// #region flag-type
// FlagType enumerates the risk categories the engine can raise.
type FlagType string

const (
	FlagModelDisagreement      FlagType = "model_disagreement"
	FlagOverconfidenceLanguage FlagType = "overconfidence_language"
	FlagHighStakesAdvice       FlagType = "high_stakes_advice"
	FlagSensitiveInference     FlagType = "sensitive_inference"
)

// #endregion flag-type

// #region severity
// Severity grades a flag. Fixed per flag type.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// #endregion severity

// #region flag
// Flag is a single raised risk with a human-readable reason.
type Flag struct {
	Type     FlagType `json:"type"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// #endregion flag

// #region assessment
// Assessment is the engine output for one prompt/response pair.
// Flags are in rule evaluation order and never nil.
type Assessment struct {
	DisagreementScore float64 `json:"disagreement_score"`
	Flags             []Flag  `json:"flags"`
}

// Has reports whether a flag of the given type was raised.
func (a Assessment) Has(t FlagType) bool {
	for _, f := range a.Flags {
		if f.Type == t {
			return true
		}
	}
	return false
}

// Types returns the raised flag types in order.
func (a Assessment) Types() []FlagType {
	out := make([]FlagType, len(a.Flags))
	for i, f := range a.Flags {
		out[i] = f.Type
	}
	return out
}

// JSON serializes the assessment into the payload persisted alongside a run:
// {"disagreement_score": n, "flags": [{"type","severity","reason"}, ...]}.
func (a Assessment) JSON() (string, error) {
	if a.Flags == nil {
		a.Flags = []Flag{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return "", fmt.Errorf("marshal assessment: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// #endregion assessment
