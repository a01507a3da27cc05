package web

import (
	"quickcore/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickcore_web_sessions_active",
		Help: "Number of browser sessions held in memory.",
	})
	attemptsSettledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcore_attempts_settled_total",
			Help: "Finished upload attempts by outcome.",
		},
		[]string{"source", "outcome"}, // source: page, api; outcome: result, error
	)
)

// observeAttempts returns a session observer that logs and counts settled attempts.
func observeAttempts(source string, logger *zap.Logger) func(session.Snapshot) {
	return func(snap session.Snapshot) {
		state := snap.State()
		if state != session.StateResult && state != session.StateError {
			return
		}
		attemptsSettledTotal.WithLabelValues(source, state.String()).Inc()
		logger.Info("Attempt settled",
			zap.String("source", source),
			zap.String("file", snap.FileName),
			zap.String("state", state.String()),
		)
	}
}
