package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one response pair with its expected result.
type FixtureCase struct {
	ID            string          `json:"id"`
	Prompt        string          `json:"prompt"`
	ResponseA     string          `json:"response_a"`
	ResponseB     string          `json:"response_b"`
	ExpectedScore *float64        `json:"expected_score,omitempty"`
	ExpectedFlags []risk.FlagType `json:"expected_flags"`
	CarryOver     []risk.FlagType `json:"carry_over,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToCase converts a FixtureCase to a Case. Expected flag types that no rule
// raises are kept by type so they surface as drift.
func (fc *FixtureCase) ToCase() Case {
	flags := make([]risk.Flag, 0, len(fc.ExpectedFlags))
	for _, t := range fc.ExpectedFlags {
		f, ok := risk.FlagFor(t)
		if !ok {
			f = risk.Flag{Type: t}
		}
		flags = append(flags, f)
	}
	return Case{
		ID: fc.ID,
		Input: risk.Input{
			Prompt:    fc.Prompt,
			ResponseA: fc.ResponseA,
			ResponseB: fc.ResponseB,
		},
		Expected:  &Expectation{Score: fc.ExpectedScore, Flags: flags},
		CarryOver: fc.CarryOver,
	}
}

// ToCases converts every fixture case.
func (f *Fixture) ToCases() []Case {
	out := make([]Case, len(f.Cases))
	for i := range f.Cases {
		out[i] = f.Cases[i].ToCase()
	}
	return out
}

// #endregion fixture-loader

// #region fixture-export

// FixtureFromRuns builds a fixture from stored runs. Runs whose payload cannot
// be decoded are skipped and counted.
func FixtureFromRuns(runs []store.Run) (Fixture, int) {
	f := Fixture{
		Description: fmt.Sprintf("Stored run export: %d runs", len(runs)),
		Cases:       make([]FixtureCase, 0, len(runs)),
	}
	skipped := 0
	for _, run := range runs {
		var stored risk.Assessment
		if err := json.Unmarshal([]byte(run.RiskJSON), &stored); err != nil {
			skipped++
			continue
		}
		score := run.DisagreementScore
		f.Cases = append(f.Cases, FixtureCase{
			ID:            run.ID,
			ResponseA:     run.ResponseA,
			ResponseB:     run.ResponseB,
			ExpectedScore: &score,
			ExpectedFlags: stored.Types(),
			CarryOver:     promptRules,
		})
	}
	return f, skipped
}

// WriteFixture writes f as indented JSON.
func WriteFixture(f Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-export
