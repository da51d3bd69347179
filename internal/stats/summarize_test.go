package stats

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
)

// #region helpers
func payloadFor(t *testing.T, a risk.Assessment) string {
	t.Helper()
	p, err := a.JSON()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	return p
}

// #endregion helpers

// #region summarize-tests
func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalRuns != 0 || got.AvgDisagreement != 0.0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if got.FlagCounts == nil || len(got.FlagCounts) != 0 {
		t.Fatalf("expected empty non-nil flag counts, got %#v", got.FlagCounts)
	}

	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"total_runs":0,"avg_disagreement":0,"flag_counts":{}}` {
		t.Fatalf("unexpected JSON %s", body)
	}
}

func TestSummarizeSingleUnparseable(t *testing.T) {
	got := Summarize([]Record{{DisagreementScore: 0.4, FlagsPayload: "{not json"}})
	if got.TotalRuns != 1 {
		t.Errorf("expected 1 run, got %d", got.TotalRuns)
	}
	if got.AvgDisagreement != 0.4 {
		t.Errorf("expected avg 0.4, got %v", got.AvgDisagreement)
	}
	want := map[string]int{BucketParseError: 1}
	if !reflect.DeepEqual(got.FlagCounts, want) {
		t.Errorf("flag counts = %v, want %v", got.FlagCounts, want)
	}
}

func TestSummarizeCountsFlags(t *testing.T) {
	records := []Record{
		{DisagreementScore: 1.0, FlagsPayload: payloadFor(t, risk.Assess("loan?", "Cats are mammals.", "Definitely quantum."))},
		{DisagreementScore: 0.333, FlagsPayload: payloadFor(t, risk.Assess("sky", "The sky is blue.", "The sky is blue and vast."))},
		{DisagreementScore: 0.0, FlagsPayload: payloadFor(t, risk.Assess("tax", "always", "always"))},
	}
	got := Summarize(records)

	if got.TotalRuns != 3 {
		t.Errorf("expected 3 runs, got %d", got.TotalRuns)
	}
	// (1.0 + 0.333 + 0) / 3 = 0.44433...
	if got.AvgDisagreement != 0.444 {
		t.Errorf("expected avg 0.444, got %v", got.AvgDisagreement)
	}
	want := map[string]int{
		"model_disagreement":      1,
		"overconfidence_language": 2,
		"high_stakes_advice":      2,
	}
	if !reflect.DeepEqual(got.FlagCounts, want) {
		t.Errorf("flag counts = %v, want %v", got.FlagCounts, want)
	}
}

func TestSummarizeIsolatesBadRecords(t *testing.T) {
	good := `{"disagreement_score":0.8,"flags":[{"type":"model_disagreement","severity":"high","reason":"r"}]}`
	records := []Record{
		{DisagreementScore: 0.8, FlagsPayload: good},
		{DisagreementScore: 0.2, FlagsPayload: ""},
		{DisagreementScore: 0.5, FlagsPayload: `{"flags":"nope"}`},
		{DisagreementScore: 0.5, FlagsPayload: good},
	}
	got := Summarize(records)

	if got.TotalRuns != 4 {
		t.Errorf("expected 4 runs, got %d", got.TotalRuns)
	}
	if got.AvgDisagreement != 0.5 {
		t.Errorf("expected avg 0.5, got %v", got.AvgDisagreement)
	}
	want := map[string]int{"model_disagreement": 2, BucketParseError: 2}
	if !reflect.DeepEqual(got.FlagCounts, want) {
		t.Errorf("flag counts = %v, want %v", got.FlagCounts, want)
	}
}

func TestSummarizeNoPartialRecovery(t *testing.T) {
	// The first flag is readable but the second is not; only parse_error counts.
	payload := `{"flags":[{"type":"high_stakes_advice"},{"type":42}]}`
	got := Summarize([]Record{{DisagreementScore: 0.1, FlagsPayload: payload}})
	want := map[string]int{BucketParseError: 1}
	if !reflect.DeepEqual(got.FlagCounts, want) {
		t.Errorf("flag counts = %v, want %v", got.FlagCounts, want)
	}
}

func TestSummarizeMissingTypeIsUnknown(t *testing.T) {
	payload := `{"disagreement_score":0.3,"flags":[{"severity":"high"},{"type":null},{"type":"sensitive_inference"}]}`
	got := Summarize([]Record{{DisagreementScore: 0.3, FlagsPayload: payload}})
	want := map[string]int{BucketUnknown: 2, "sensitive_inference": 1}
	if !reflect.DeepEqual(got.FlagCounts, want) {
		t.Errorf("flag counts = %v, want %v", got.FlagCounts, want)
	}
}

func TestSummarizeMissingFlagsKey(t *testing.T) {
	got := Summarize([]Record{{DisagreementScore: 0.3, FlagsPayload: `{"disagreement_score":0.3}`}})
	if len(got.FlagCounts) != 0 {
		t.Errorf("expected no counts, got %v", got.FlagCounts)
	}
	if got.TotalRuns != 1 {
		t.Errorf("expected 1 run, got %d", got.TotalRuns)
	}
}

// #endregion summarize-tests

// #region parse-tests
func TestParseFlagsRejectsNonObjects(t *testing.T) {
	bad := []string{
		"",
		"null",
		"[]",
		`"text"`,
		`{"flags":null}`,
		`{"flags":[null]}`,
		`{"flags":["model_disagreement"]}`,
		`{"flags":{"type":"x"}}`,
	}
	for _, p := range bad {
		if parseFlags(p).err == nil {
			t.Errorf("expected parse error for %q", p)
		}
	}
}

func TestParseFlagsAcceptsEmptyList(t *testing.T) {
	got := parseFlags(`{"disagreement_score":0,"flags":[]}`)
	if got.err != nil {
		t.Fatalf("unexpected error: %v", got.err)
	}
	if len(got.types) != 0 {
		t.Fatalf("expected no types, got %v", got.types)
	}
}

// #endregion parse-tests
