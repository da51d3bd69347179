package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/danielpatrickdp/risk-explorer/internal/replay"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to risk_explorer.db")
	last := flag.Int("last", 20, "number of most recent runs to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs found")
	}

	// Chronological order reads better in a fixture.
	slices.Reverse(runs)

	fixture, skipped := replay.FixtureFromRuns(runs)
	if skipped > 0 {
		fmt.Printf("Skipped %d runs with unreadable risk_json\n", skipped)
	}
	if len(fixture.Cases) == 0 {
		return fmt.Errorf("no exportable runs in last %d", last)
	}

	if err := replay.WriteFixture(fixture, outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote fixture to %s (%d cases)\n", outPath, len(fixture.Cases))
	return nil
}

// #endregion export
