package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

const namespace = "oxbingo"

type Metrics struct {
	registry *prometheus.Registry

	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	moves         *prometheus.CounterVec
}

func New() *Metrics {
	that := &Metrics{
		registry: prometheus.NewRegistry(),

		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started or restarted.",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move attempts, by result.",
		}, []string{"result"}),
	}

	that.registry.MustRegister(
		collectors.NewGoCollector(),
		that.gamesStarted,
		that.gamesFinished,
		that.moves,
	)

	return that
}

func (that *Metrics) GameStarted() {
	that.gamesStarted.Inc()
}

// Move counts one move attempt and, if it ended the game, the outcome.
func (that *Metrics) Move(result entity.MoveResult, session *entity.Session) {
	that.moves.WithLabelValues(string(result)).Inc()

	if !result.Accepted() {
		return
	}

	switch {
	case session.IsWon():
		that.gamesFinished.WithLabelValues("won_" + string(session.Winner)).Inc()
	case session.IsDrawn():
		that.gamesFinished.WithLabelValues("drawn").Inc()
	}
}

func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{})
}
