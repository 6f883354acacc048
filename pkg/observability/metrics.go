package observability

import (
	"context"
	"errors"
	"strconv"

	"github.com/aretw0/ussdsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the simulator collectors.
type Metrics struct {
	Dials           *prometheus.CounterVec
	Selections      *prometheus.CounterVec
	Ends            *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	SessionDepth    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg (skipped when reg is nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ussdsim_dials_total",
				Help: "Total number of answered dials",
			},
			[]string{"operator", "known"},
		),
		Selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ussdsim_selections_total",
				Help: "Total number of menu selections",
			},
			[]string{"kind"},
		),
		Ends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ussdsim_sessions_ended_total",
				Help: "Total number of ended sessions",
			},
			[]string{"reason"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ussdsim_rejections_total",
				Help: "Total number of rejected calls",
			},
			[]string{"op", "error"},
		),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ussdsim_session_duration_seconds",
			Help:    "Time from dial to end of session",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}),
		SessionDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ussdsim_session_depth",
			Help:    "Menu depth reached when the session ended",
			Buckets: []float64{1, 2, 3, 4, 5, 8},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Dials, m.Selections, m.Ends, m.Rejections, m.SessionDuration, m.SessionDepth)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDial: func(_ context.Context, e *domain.DialEvent) {
			m.Dials.WithLabelValues(e.Operator, strconv.FormatBool(e.Known)).Inc()
		},
		OnSelect: func(_ context.Context, e *domain.SelectEvent) {
			m.Selections.WithLabelValues(string(e.Kind)).Inc()
		},
		OnEnd: func(_ context.Context, e *domain.EndEvent) {
			m.Ends.WithLabelValues(string(e.Reason)).Inc()
			m.SessionDuration.Observe(e.Duration.Seconds())
			m.SessionDepth.Observe(float64(e.Depth))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.Rejections.WithLabelValues(e.Op, errorLabel(e.Err)).Inc()
		},
	}
}

// errorLabel keeps the label set bounded.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDialCode):
		return "invalid_dial_code"
	case errors.Is(err, domain.ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrOperationInProgress):
		return "operation_in_progress"
	default:
		return "other"
	}
}
