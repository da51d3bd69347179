package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
	"golang.org/x/sync/errgroup"
)

// promptRules are the flag types that depend on the prompt text.
var promptRules = []risk.FlagType{risk.FlagHighStakesAdvice}

// #region rescore
// Rescore runs the current rules over every case with at most workers cases
// in flight. Outcomes keep the order of cases.
func Rescore(ctx context.Context, cases []Case, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Outcome, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cases {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = rescoreOne(cases[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rescore: %w", err)
	}
	return out, nil
}

func rescoreOne(c Case) Outcome {
	a := risk.AssessInput(c.Input)
	o := Outcome{ID: c.ID, Note: c.Note}
	if c.Expected == nil {
		o.Assessment = a
		return o
	}
	if len(c.CarryOver) > 0 {
		a = carryOver(a, c.Expected.Flags, c.CarryOver)
	}
	o.Assessment = a
	o.Checked = true
	o.Drift = diff(*c.Expected, a)
	o.Match = len(o.Drift) == 0
	return o
}

// carryOver replaces the recomputed flags of the carried types with the
// expected ones, keeping rule order.
func carryOver(a risk.Assessment, expected []risk.Flag, carried []risk.FlagType) risk.Assessment {
	flags := make([]risk.Flag, 0, len(a.Flags)+len(carried))
	for _, t := range risk.RuleTypes() {
		src := a.Flags
		if slices.Contains(carried, t) {
			src = expected
		}
		if i := slices.IndexFunc(src, func(f risk.Flag) bool { return f.Type == t }); i >= 0 {
			flags = append(flags, src[i])
		}
	}
	return risk.Assessment{DisagreementScore: a.DisagreementScore, Flags: flags}
}

// diff compares score and flag types. Severity and reason are not compared.
func diff(want Expectation, got risk.Assessment) []string {
	var drift []string
	if want.Score != nil && *want.Score != got.DisagreementScore {
		drift = append(drift, fmt.Sprintf("score %.3f -> %.3f", *want.Score, got.DisagreementScore))
	}
	for _, f := range want.Flags {
		if !got.Has(f.Type) {
			drift = append(drift, "lost "+string(f.Type))
		}
	}
	for _, f := range got.Flags {
		if !slices.ContainsFunc(want.Flags, func(w risk.Flag) bool { return w.Type == f.Type }) {
			drift = append(drift, "new "+string(f.Type))
		}
	}
	return drift
}

// #endregion rescore

// #region summary
// Summarize counts matched, drifted and unchecked outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case !o.Checked:
			s.Unchecked++
		case o.Match:
			s.Matched++
		default:
			s.Drifted++
		}
	}
	return s
}

// #endregion summary

// #region from-runs
// CasesFromRuns turns stored runs into cases checked against their stored
// payload. Stored runs keep no prompt, so prompt-dependent flags are carried
// over. A run whose payload cannot be decoded becomes an unchecked case.
func CasesFromRuns(runs []store.Run) []Case {
	cases := make([]Case, len(runs))
	for i, run := range runs {
		c := Case{
			ID:    run.ID,
			Input: risk.Input{ResponseA: run.ResponseA, ResponseB: run.ResponseB},
		}
		var stored risk.Assessment
		if err := json.Unmarshal([]byte(run.RiskJSON), &stored); err != nil {
			c.Note = "unreadable risk_json: " + err.Error()
		} else {
			score := run.DisagreementScore
			c.Expected = &Expectation{Score: &score, Flags: stored.Flags}
			c.CarryOver = promptRules
		}
		cases[i] = c
	}
	return cases
}

// #endregion from-runs
