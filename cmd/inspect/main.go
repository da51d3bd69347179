package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/danielpatrickdp/risk-explorer/internal/logging"
	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/stats"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to risk_explorer.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	showStats := flag.Bool("stats", false, "show aggregate statistics")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/risk_explorer.db [--last N] [--run id] [--stats] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *runID != "":
		err = runDetailMode(st, *runID, *jsonOut)
	case *showStats:
		err = runStatsMode(st, *jsonOut)
	default:
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID     string          `json:"run_id"`
	Score     float64         `json:"disagreement_score"`
	Flags     []risk.FlagType `json:"flags"`
	ModelA    string          `json:"model_a"`
	ModelB    string          `json:"model_b"`
	PromptLen int             `json:"prompt_len"`
	CreatedAt string          `json:"created_at"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	// Store returns newest first; print chronologically.
	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[len(runs)-1-i] = listRow{
			RunID:     r.ID,
			Score:     r.DisagreementScore,
			Flags:     flagTypes(r.RiskJSON),
			ModelA:    r.ModelA,
			ModelB:    r.ModelB,
			PromptLen: r.PromptLen,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %6s  %6s  %-20s  %s\n", "Run", "Score", "Prompt", "Time", "Flags")
	fmt.Printf("%-10s+-%6s+-%6s+-%-20s+-%s\n", "----------", "------", "------", "--------------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-10s  %6.3f  %6d  %-20s  %s\n",
			shortID(r.RunID), r.Score, r.PromptLen, r.CreatedAt, joinFlags(r.Flags))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, id string, jsonOut bool) error {
	run, err := st.GetRun(id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(run)
	}

	fmt.Printf("Run:         %s\n", run.ID)
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("Prompt hash: %s (%d chars)\n", run.PromptHash, run.PromptLen)
	fmt.Printf("Models:      %s | %s\n", run.ModelA, run.ModelB)
	fmt.Printf("Score:       %.3f\n", run.DisagreementScore)
	fmt.Printf("\n[A] %s\n\n[B] %s\n", run.ResponseA, run.ResponseB)

	var a risk.Assessment
	if err := json.Unmarshal([]byte(run.RiskJSON), &a); err != nil {
		fmt.Printf("\nFlags: unreadable (%v)\n", err)
		return nil
	}
	fmt.Printf("\nFlags:\n")
	if len(a.Flags) == 0 {
		fmt.Println("  none")
	}
	for _, f := range a.Flags {
		fmt.Printf("  %-24s %-6s %s\n", f.Type, f.Severity, f.Reason)
	}
	return nil
}

// #endregion detail-mode

// #region stats-mode

type statsOutput struct {
	stats.SummaryStats
	Outcomes []logging.OutcomeCount `json:"compare_outcomes"`
}

func runStatsMode(st *store.Store, jsonOut bool) error {
	records, err := st.ListScores()
	if err != nil {
		return err
	}
	outcomes, err := logging.CountOutcomes(st.DB())
	if err != nil {
		return err
	}
	out := statsOutput{SummaryStats: stats.Summarize(records), Outcomes: outcomes}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Total runs:       %d\n", out.TotalRuns)
	fmt.Printf("Avg disagreement: %.3f\n", out.AvgDisagreement)
	fmt.Printf("\nFlag counts:\n")
	keys := make([]string, 0, len(out.FlagCounts))
	for k := range out.FlagCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, out.FlagCounts[k])
	}
	fmt.Printf("\nCompare outcomes:\n")
	for _, o := range outcomes {
		fmt.Printf("  %-24s %d\n", o.Outcome, o.Count)
	}
	return nil
}

// #endregion stats-mode

// #region output

func flagTypes(payload string) []risk.FlagType {
	var a risk.Assessment
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return []risk.FlagType{stats.BucketParseError}
	}
	return a.Types()
}

func joinFlags(types []risk.FlagType) string {
	if len(types) == 0 {
		return "—"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
