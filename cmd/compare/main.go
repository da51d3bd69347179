package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/danielpatrickdp/risk-explorer/internal/compare"
	"github.com/danielpatrickdp/risk-explorer/internal/config"
	"github.com/danielpatrickdp/risk-explorer/internal/llm"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	gen, closeGen, err := llm.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to set up %s backend: %v", cfg.Backend, err)
	}
	defer closeGen()

	svc := compare.NewService(gen, st, compare.Config{
		ModelA:       cfg.ModelA,
		ModelB:       cfg.ModelB,
		ModelTimeout: cfg.ModelTimeout,
		Attempts:     cfg.ModelAttempts,
	})

	fmt.Println("Risk Explorer ready.")
	fmt.Printf("  DB: %s | Backend: %s | A: %s | B: %s\n", cfg.DBPath, cfg.Backend, cfg.ModelA, cfg.ModelB)
	fmt.Println("Type a prompt (or 'quit' to exit, 'stats' for totals):")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "quit" || prompt == "exit" {
			break
		}
		if prompt == "stats" {
			printStats(svc)
			continue
		}

		res, err := svc.Compare(context.Background(), prompt, compare.TriggerCLI)
		if err != nil {
			log.Printf("compare error: %v", err)
			continue
		}
		printResult(res)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("read stdin: %v", err)
	}
}

// #endregion main

// #region output
func printResult(res compare.Result) {
	fmt.Printf("\n[A] %s\n\n[B] %s\n\n", res.ResponseA, res.ResponseB)
	fmt.Printf("[%s] disagreement=%.3f flags=%d\n", shortID(res.RunID), res.DisagreementScore, len(res.Flags))
	for _, f := range res.Flags {
		fmt.Printf("  %-24s %-6s %s\n", f.Type, f.Severity, f.Reason)
	}
	fmt.Println()
}

func printStats(svc *compare.Service) {
	s, err := svc.Stats()
	if err != nil {
		log.Printf("stats error: %v", err)
		return
	}
	fmt.Printf("runs=%d avg_disagreement=%.3f\n", s.TotalRuns, s.AvgDisagreement)
	for k, v := range s.FlagCounts {
		fmt.Printf("  %-24s %d\n", k, v)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
