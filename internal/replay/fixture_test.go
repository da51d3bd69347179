package replay

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region fixture-tests

// TestFixture_Scenarios rescores the reference scenarios and fails on any
// drift. If a keyword table or the threshold changes, this catches it.
func TestFixture_Scenarios(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(f.Cases) == 0 {
		t.Fatal("fixture has no cases")
	}

	out, err := Rescore(context.Background(), f.ToCases(), 3)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	for _, o := range out {
		if !o.Checked {
			t.Errorf("%s: expected checked outcome", o.ID)
		}
		if !o.Match {
			t.Errorf("%s: drift %v", o.ID, o.Drift)
		}
	}
	if s := Summarize(out); s.Matched != len(f.Cases) {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestFixtureCase_ToCase(t *testing.T) {
	fc := FixtureCase{
		ID:            "c1",
		Prompt:        "p",
		ResponseA:     "a",
		ResponseB:     "b",
		ExpectedFlags: []risk.FlagType{risk.FlagHighStakesAdvice, "retired_rule"},
	}
	c := fc.ToCase()
	if c.ID != "c1" || c.Input.Prompt != "p" || c.Input.ResponseA != "a" || c.Input.ResponseB != "b" {
		t.Fatalf("unexpected case %+v", c)
	}
	if c.Expected == nil || c.Expected.Score != nil {
		t.Fatalf("expected expectation without score, got %+v", c.Expected)
	}
	if len(c.Expected.Flags) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(c.Expected.Flags))
	}
	if c.Expected.Flags[0].Severity != risk.SeverityHigh || c.Expected.Flags[0].Reason == "" {
		t.Errorf("known flag should be filled from the rule, got %+v", c.Expected.Flags[0])
	}
	if c.Expected.Flags[1].Type != "retired_rule" {
		t.Errorf("unknown flag should keep its type, got %+v", c.Expected.Flags[1])
	}
}

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// #endregion fixture-tests

// #region export-tests

func TestFixtureFromRuns_RoundTrip(t *testing.T) {
	prompt := "Can I deduct this on my tax return?"
	a := risk.Assess(prompt, "Yes, always.", "Check with an accountant.")
	runs := []store.Run{
		{
			ID: "r1", CreatedAt: time.Now(), ResponseA: "Yes, always.", ResponseB: "Check with an accountant.",
			DisagreementScore: a.DisagreementScore, RiskJSON: mustPayload(t, a),
		},
		{ID: "r2", RiskJSON: "{broken"},
	}

	f, skipped := FixtureFromRuns(runs)
	if skipped != 1 {
		t.Errorf("expected 1 skipped run, got %d", skipped)
	}
	if len(f.Cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(f.Cases))
	}
	fc := f.Cases[0]
	if fc.Prompt != "" {
		t.Error("exported case must not carry a prompt")
	}
	if !slices.Equal(fc.ExpectedFlags, a.Types()) {
		t.Errorf("expected flags %v, got %v", a.Types(), fc.ExpectedFlags)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	if err := WriteFixture(f, path); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	out, err := Rescore(context.Background(), loaded.ToCases(), 1)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if !out[0].Match {
		t.Errorf("exported case should rescore cleanly, drift %v", out[0].Drift)
	}
	if !out[0].Assessment.Has(risk.FlagHighStakesAdvice) {
		t.Error("high_stakes_advice should be carried over")
	}
}

func TestWriteFixture_BadPath(t *testing.T) {
	err := WriteFixture(Fixture{}, filepath.Join(t.TempDir(), "missing", "out.json"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

// #endregion export-tests
