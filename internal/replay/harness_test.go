package replay

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region helpers
func mustPayload(t *testing.T, a risk.Assessment) string {
	t.Helper()
	p, err := a.JSON()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	return p
}

func ptr(f float64) *float64 { return &f }

// #endregion helpers

// #region rescore-tests

func TestRescore_MatchAndDrift(t *testing.T) {
	cases := []Case{
		{
			ID:       "match",
			Input:    risk.Input{ResponseA: "Cats are mammals.", ResponseB: "Quantum entanglement defies locality."},
			Expected: &Expectation{Score: ptr(1.0), Flags: []risk.Flag{{Type: risk.FlagModelDisagreement}}},
		},
		{
			ID:       "drift",
			Input:    risk.Input{ResponseA: "same", ResponseB: "same"},
			Expected: &Expectation{Score: ptr(0.5), Flags: []risk.Flag{{Type: risk.FlagSensitiveInference}}},
		},
		{
			ID:    "unchecked",
			Input: risk.Input{ResponseA: "a", ResponseB: "b"},
			Note:  "no reference",
		},
	}

	out, err := Rescore(context.Background(), cases, 2)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(out))
	}
	for i, c := range cases {
		if out[i].ID != c.ID {
			t.Errorf("outcome %d: expected id %s, got %s", i, c.ID, out[i].ID)
		}
	}

	if !out[0].Checked || !out[0].Match {
		t.Errorf("expected match, got %+v", out[0])
	}

	if out[1].Match {
		t.Fatal("expected drift")
	}
	want := []string{"score 0.500 -> 0.000", "lost sensitive_inference"}
	if !slices.Equal(out[1].Drift, want) {
		t.Errorf("expected drift %v, got %v", want, out[1].Drift)
	}

	if out[2].Checked || out[2].Note != "no reference" {
		t.Errorf("expected unchecked outcome, got %+v", out[2])
	}
	if out[2].Assessment.DisagreementScore != 1.0 {
		t.Errorf("unchecked case should still be scored, got %v", out[2].Assessment.DisagreementScore)
	}

	s := Summarize(out)
	if s != (Summary{Total: 3, Matched: 1, Drifted: 1, Unchecked: 1}) {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestRescore_NewFlagIsDrift(t *testing.T) {
	out, err := Rescore(context.Background(), []Case{{
		ID:       "new",
		Input:    risk.Input{ResponseA: "definitely", ResponseB: "definitely"},
		Expected: &Expectation{},
	}}, 1)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if len(out[0].Drift) != 1 || out[0].Drift[0] != "new overconfidence_language" {
		t.Errorf("unexpected drift %v", out[0].Drift)
	}
}

func TestRescore_CarryOverKeepsRuleOrder(t *testing.T) {
	hs, _ := risk.FlagFor(risk.FlagHighStakesAdvice)
	out, err := Rescore(context.Background(), []Case{{
		ID:        "carry",
		Input:     risk.Input{ResponseA: "never", ResponseB: "Pregnancy matters."},
		Expected:  &Expectation{Flags: []risk.Flag{hs}},
		CarryOver: []risk.FlagType{risk.FlagHighStakesAdvice},
	}}, 1)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	got := out[0].Assessment.Types()
	want := []risk.FlagType{
		risk.FlagModelDisagreement,
		risk.FlagOverconfidenceLanguage,
		risk.FlagHighStakesAdvice,
		risk.FlagSensitiveInference,
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRescore_CarryOverDropsRecomputed(t *testing.T) {
	// The prompt would raise high_stakes_advice, but the carried value wins.
	out, err := Rescore(context.Background(), []Case{{
		ID:        "carry-absent",
		Input:     risk.Input{Prompt: "tax question", ResponseA: "x", ResponseB: "x"},
		Expected:  &Expectation{},
		CarryOver: []risk.FlagType{risk.FlagHighStakesAdvice},
	}}, 1)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if out[0].Assessment.Has(risk.FlagHighStakesAdvice) || !out[0].Match {
		t.Errorf("expected carried absence to win, got %+v", out[0])
	}
}

func TestRescore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rescore(ctx, []Case{{ID: "x"}}, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRescore_Empty(t *testing.T) {
	out, err := Rescore(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no outcomes, got %d", len(out))
	}
	if s := Summarize(out); s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

// #endregion rescore-tests

// #region from-runs-tests

func TestCasesFromRuns_StoredRunsMatch(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "replay.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer st.Close()

	prompt := "Should I buy this stock?"
	a := risk.Assess(prompt, "It will definitely rise.", "Nobody can know.")
	hash, n := store.HashPrompt(prompt)
	if _, err := st.InsertRun(store.Run{
		PromptHash: hash, PromptLen: n, ModelA: "m", ModelB: "m",
		ResponseA: "It will definitely rise.", ResponseB: "Nobody can know.",
		DisagreementScore: a.DisagreementScore, RiskJSON: mustPayload(t, a),
	}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if _, err := st.InsertRun(store.Run{
		PromptHash: "h", ResponseA: "x", ResponseB: "y", RiskJSON: "not json",
	}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	out, err := Rescore(context.Background(), CasesFromRuns(runs), 2)
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}

	s := Summarize(out)
	if s.Total != 2 || s.Matched != 1 || s.Unchecked != 1 || s.Drifted != 0 {
		t.Fatalf("unexpected summary %+v (outcomes %+v)", s, out)
	}
	for _, o := range out {
		if o.Checked && !o.Assessment.Has(risk.FlagHighStakesAdvice) {
			t.Error("high_stakes_advice should be carried over from the stored payload")
		}
		if !o.Checked && !strings.HasPrefix(o.Note, "unreadable risk_json") {
			t.Errorf("unexpected note %q", o.Note)
		}
	}
}

// #endregion from-runs-tests
