package observability

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richfrem/quoteagent/internal/logging"
	"github.com/richfrem/quoteagent/pkg/domain"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	NodeVisits       *prometheus.CounterVec
	FollowUps        *prometheus.CounterVec
	FollowUpDuration prometheus.Histogram
	Reviews          *prometheus.CounterVec
	Turns            *prometheus.CounterVec
	TurnDuration     prometheus.Histogram
	SessionsSwept    prometheus.Counter
	Submissions      *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(logger *slog.Logger) *Metrics {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logger,
		NodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteagent_node_visits_total",
			Help: "Total number of catalog node visits",
		}, []string{"node_id"}),
		FollowUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteagent_followup_requests_total",
			Help: "Follow-up generation attempts by outcome",
		}, []string{"outcome"}),
		FollowUpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quoteagent_followup_duration_seconds",
			Help:    "Duration of follow-up generation calls",
			Buckets: prometheus.DefBuckets,
		}),
		Reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteagent_reviews_total",
			Help: "Sessions that reached the review stage",
		}, []string{"service", "emergency"}),
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteagent_turns_total",
			Help: "Processed turn requests by result",
		}, []string{"result"}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quoteagent_turn_duration_seconds",
			Help:    "Duration of turn processing",
			Buckets: prometheus.DefBuckets,
		}),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quoteagent_sessions_swept_total",
			Help: "Idle sessions removed by the sweeper",
		}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteagent_submissions_total",
			Help: "Reviewed intakes handed to the submission repository",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.NodeVisits, m.FollowUps, m.FollowUpDuration, m.Reviews,
		m.Turns, m.TurnDuration, m.SessionsSwept, m.Submissions,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that log each event and record it.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.logger.Debug("node_enter", "session_id", e.SessionID, "node_id", e.NodeID, "kind", e.Kind)
			m.NodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnFollowUp: func(ctx context.Context, e *domain.FollowUpEvent) {
			outcome := "none"
			switch {
			case e.Err != nil:
				outcome = "error"
			case e.Questions > 0:
				outcome = "questions"
			}
			m.logger.Info("follow_up",
				"session_id", e.SessionID,
				"questions", e.Questions,
				"duration", e.Duration,
				"outcome", outcome,
			)
			m.FollowUps.WithLabelValues(outcome).Inc()
			m.FollowUpDuration.Observe(e.Duration.Seconds())
		},
		OnReview: func(ctx context.Context, e *domain.ReviewEvent) {
			m.logger.Info("review",
				"session_id", e.SessionID,
				"service", e.Service,
				"emergency", e.Emergency,
				"answers", e.Answers,
			)
			m.Reviews.WithLabelValues(e.Service, strconv.FormatBool(e.Emergency)).Inc()
		},
	}
}

// ObserveTurn records one turn request.
func (m *Metrics) ObserveTurn(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Turns.WithLabelValues(result).Inc()
	m.TurnDuration.Observe(d.Seconds())
}

// ObserveSweep records removed sessions.
func (m *Metrics) ObserveSweep(removed int) {
	m.SessionsSwept.Add(float64(removed))
}

// ObserveSubmission records a submission attempt.
func (m *Metrics) ObserveSubmission(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Submissions.WithLabelValues(result).Inc()
}
