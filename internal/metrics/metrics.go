package metrics

import (
	"gridjump/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridjump"

// Metrics - счетчики игрового сервера
type Metrics struct {
	MatchesCreated  prometheus.Counter
	MatchesStarted  prometheus.Counter
	MatchesFinished prometheus.Counter
	Joins           *prometheus.CounterVec
	MovesSubmitted  *prometheus.CounterVec
	MoveOutcomes    *prometheus.CounterVec
	TurnsExecuted   prometheus.Counter
	PlayersPerMatch prometheus.Histogram
}

// New регистрирует метрики в reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MatchesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches created by the lobby assigner.",
		}),
		MatchesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_started_total",
			Help:      "Matches that left the lobby.",
		}),
		MatchesFinished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Matches that reached the turn limit.",
		}),
		Joins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Join attempts by result code.",
		}, []string{"result"}),
		MovesSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_submitted_total",
			Help:      "Move submissions by kind and intake result.",
		}, []string{"kind", "result"}),
		MoveOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "move_outcomes_total",
			Help:      "Resolved moves by outcome code.",
		}, []string{"code"}),
		TurnsExecuted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_executed_total",
			Help:      "Turn resolutions across all matches.",
		}),
		PlayersPerMatch: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "players_per_match",
			Help:      "Player count at match start.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
}

// ObserveTurn раскладывает итог хода по счетчикам
func (m *Metrics) ObserveTurn(r game.TurnReport) {
	m.TurnsExecuted.Inc()
	for _, o := range r.Outcomes {
		m.MoveOutcomes.WithLabelValues(string(o.Status.Msg)).Inc()
	}
}

// ObserveSubmit учитывает попытку отправить ход
func (m *Metrics) ObserveSubmit(kind game.MoveKind, err error) {
	m.MovesSubmitted.WithLabelValues(string(kind), resultLabel(err)).Inc()
}

func (m *Metrics) ObserveJoin(err error) {
	m.Joins.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := game.CodeOf(err); ok {
		return string(code)
	}
	return "error"
}
