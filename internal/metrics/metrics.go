package metrics

import (
	"time"

	"github.com/danielpatrickdp/risk-explorer/internal/risk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// #region recorder
// Recorder holds the compare pipeline's Prometheus collectors. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	compares     *prometheus.CounterVec
	flags        *prometheus.CounterVec
	disagreement prometheus.Histogram
	modelCall    *prometheus.HistogramVec
}

// NewRecorder registers the collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		compares: f.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_compare_total",
			Help: "Compare attempts by outcome.",
		}, []string{"outcome"}),
		flags: f.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_flags_total",
			Help: "Risk flags raised by type.",
		}, []string{"type"}),
		disagreement: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "risk_disagreement_score",
			Help:    "Disagreement score of stored comparisons.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		modelCall: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "risk_model_call_seconds",
			Help:    "Model call latency by response slot.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"slot"}),
	}
}

// #endregion recorder

// #region observe
// ObserveCompare counts one compare attempt.
func (r *Recorder) ObserveCompare(outcome string) {
	if r == nil {
		return
	}
	r.compares.WithLabelValues(outcome).Inc()
}

// ObserveAssessment records the score and every raised flag.
func (r *Recorder) ObserveAssessment(a risk.Assessment) {
	if r == nil {
		return
	}
	r.disagreement.Observe(a.DisagreementScore)
	for _, f := range a.Flags {
		r.flags.WithLabelValues(string(f.Type)).Inc()
	}
}

// ObserveModelCall records the latency of one model call.
func (r *Recorder) ObserveModelCall(slot string, d time.Duration) {
	if r == nil {
		return
	}
	r.modelCall.WithLabelValues(slot).Observe(d.Seconds())
}

// #endregion observe
