package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielpatrickdp/risk-explorer/internal/llm"
	"github.com/danielpatrickdp/risk-explorer/internal/logging"
	"github.com/danielpatrickdp/risk-explorer/internal/metrics"
	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/danielpatrickdp/risk-explorer/internal/stats"
	"github.com/danielpatrickdp/risk-explorer/internal/store"
	"golang.org/x/sync/errgroup"
)

// #region service-struct
// Service runs both models on a prompt, assesses the pair and persists the run.
type Service struct {
	gen     llm.Generator
	store   *store.Store
	cfg     Config
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// #endregion service-struct

// #region constructor
// NewService wires a Service. Metrics are off until WithMetrics is called.
func NewService(gen llm.Generator, st *store.Store, cfg Config) *Service {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultConfig().ModelTimeout
	}
	return &Service{gen: gen, store: st, cfg: cfg, logger: slog.Default()}
}

// WithMetrics attaches a metrics recorder.
func (s *Service) WithMetrics(rec *metrics.Recorder) *Service {
	s.metrics = rec
	return s
}

// WithLogger replaces the default logger.
func (s *Service) WithLogger(l *slog.Logger) *Service {
	s.logger = l
	return s
}

// Config returns the active configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// #endregion constructor

// #region compare
// Compare runs model A and model B on the trimmed prompt concurrently, assesses
// the two responses and stores the run. The length limit applies to the prompt
// as received; the trimmed prompt must not be empty. Every attempt is written
// to the compare log, including failures.
func (s *Service) Compare(ctx context.Context, prompt, trigger string) (Result, error) {
	raw := utf8.RuneCountInString(prompt)
	prompt = strings.TrimSpace(prompt)
	hash, n := store.HashPrompt(prompt)
	if raw > MaxPromptLen || n == 0 {
		if n == 0 {
			hash = ""
		}
		err := fmt.Errorf("%w: length %d (%d after trim) outside 1..%d", ErrInvalidPrompt, raw, n, MaxPromptLen)
		s.finish(logging.CompareEntry{PromptHash: hash, TriggerType: trigger, Outcome: logging.OutcomeInvalidPrompt, Reason: err.Error()})
		return Result{}, err
	}

	var respA, respB string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		respA, err = s.callModel(gctx, "a", s.cfg.ModelA, prompt)
		return err
	})
	g.Go(func() error {
		var err error
		respB, err = s.callModel(gctx, "b", s.cfg.ModelB, prompt)
		return err
	})
	if err := g.Wait(); err != nil {
		s.finish(logging.CompareEntry{PromptHash: hash, TriggerType: trigger, Outcome: logging.OutcomeModelError, Reason: err.Error()})
		return Result{}, err
	}

	assessment := risk.Assess(prompt, respA, respB)
	payload, err := assessment.JSON()
	if err != nil {
		s.finish(logging.CompareEntry{PromptHash: hash, TriggerType: trigger, Outcome: logging.OutcomeStoreError, Reason: err.Error()})
		return Result{}, err
	}

	run, err := s.store.InsertRun(store.Run{
		PromptHash:        hash,
		PromptLen:         n,
		ModelA:            s.cfg.ModelA,
		ModelB:            s.cfg.ModelB,
		ResponseA:         respA,
		ResponseB:         respB,
		DisagreementScore: assessment.DisagreementScore,
		RiskJSON:          payload,
	})
	if err != nil {
		s.finish(logging.CompareEntry{PromptHash: hash, TriggerType: trigger, Outcome: logging.OutcomeStoreError, Reason: err.Error()})
		return Result{}, fmt.Errorf("store run: %w", err)
	}

	s.finish(logging.CompareEntry{RunID: run.ID, PromptHash: hash, TriggerType: trigger, Outcome: logging.OutcomeStored, FlagsJSON: payload})
	s.metrics.ObserveAssessment(assessment)

	return Result{
		RunID:             run.ID,
		ResponseA:         respA,
		ResponseB:         respB,
		DisagreementScore: assessment.DisagreementScore,
		Flags:             assessment.Flags,
	}, nil
}

// finish records the outcome in the compare log and metrics. Audit failures
// are logged, never returned.
func (s *Service) finish(entry logging.CompareEntry) {
	s.metrics.ObserveCompare(string(entry.Outcome))
	if err := logging.LogCompare(s.store.DB(), entry); err != nil {
		s.logger.Warn("compare log write failed", "outcome", entry.Outcome, "error", err)
	}
}

// #endregion compare

// #region model-call
// callModel makes up to cfg.Attempts attempts, each bounded by
// cfg.ModelTimeout.
func (s *Service) callModel(ctx context.Context, slot, model, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.Attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
		start := time.Now()
		text, err := s.gen.Generate(callCtx, model, prompt)
		cancel()
		s.metrics.ObserveModelCall(slot, time.Since(start))
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
		if attempt < s.cfg.Attempts {
			s.logger.Warn("model call failed, retrying",
				"slot", slot, "model", model, "attempt", attempt, "error", err)
		}
	}
	return "", &ModelError{Slot: slot, Model: model, Err: lastErr}
}

// retryable reports whether another attempt could succeed.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, llm.ErrMissingAPIKey)
}

// #endregion model-call

// #region queries
// Stats summarizes every stored run.
func (s *Service) Stats() (stats.SummaryStats, error) {
	records, err := s.store.ListScores()
	if err != nil {
		return stats.SummaryStats{}, fmt.Errorf("stats: %w", err)
	}
	return stats.Summarize(records), nil
}

// Run fetches a stored run.
func (s *Service) Run(id string) (store.Run, error) {
	return s.store.GetRun(id)
}

// Recent lists the newest stored runs.
func (s *Service) Recent(limit int) ([]store.Run, error) {
	return s.store.ListRuns(limit)
}

// Outcomes breaks compare attempts down by outcome.
func (s *Service) Outcomes() ([]logging.OutcomeCount, error) {
	return logging.CountOutcomes(s.store.DB())
}

// #endregion queries
