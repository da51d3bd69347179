package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/danielpatrickdp/risk-explorer/internal/replay"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to risk_explorer.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	last := flag.Int("last", 1000, "rescore the N most recent runs (DB mode)")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent rescoring workers")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/risk_explorer.db [--last N]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var cases []replay.Case
	var err error
	if *fixturePath != "" {
		cases, err = fixtureCases(*fixturePath)
	} else {
		cases, err = dbCases(*dbPath, *last)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to rescore")
		os.Exit(2)
	}

	outcomes, err := replay.Rescore(context.Background(), cases, *workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	os.Exit(printComparison(outcomes))
}

// #endregion main

// #region sources

func fixtureCases(path string) ([]replay.Case, error) {
	f, err := replay.LoadFixture(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	return f.ToCases(), nil
}

func dbCases(dbPath string, last int) ([]replay.Case, error) {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(last)
	if err != nil {
		return nil, err
	}
	return replay.CasesFromRuns(runs), nil
}

// #endregion sources

// #region output

// printComparison outputs one line per case and returns the exit code.
func printComparison(outcomes []replay.Outcome) int {
	fmt.Printf("%-12s| %-8s| %-9s| %s\n", "Case", "Score", "Result", "Detail")
	fmt.Printf("%-12s+%-9s+%-10s+%s\n", "------------", "---------", "----------", "--------------------")

	for _, o := range outcomes {
		result, detail := "OK", ""
		switch {
		case !o.Checked:
			result, detail = "SKIP", o.Note
		case !o.Match:
			result, detail = "DIFF", strings.Join(o.Drift, "; ")
		}
		fmt.Printf("%-12s| %-8.3f| %-9s| %s\n", shortID(o.ID), o.Assessment.DisagreementScore, result, detail)
	}

	s := replay.Summarize(outcomes)
	fmt.Printf("\nSummary: %d total, %d match, %d diverge, %d unchecked\n", s.Total, s.Matched, s.Drifted, s.Unchecked)

	if s.Drifted > 0 {
		return 1
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion output
