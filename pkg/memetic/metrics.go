package memetic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the optimizer's progress. A nil *Metrics records nothing
type Metrics struct {
	Generations          prometheus.Counter
	Improvements         *prometheus.CounterVec
	TabuPushes           prometheus.Counter
	BestPenalty          prometheus.Gauge
	ConstructionAttempts *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Generations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timetabling",
			Name:      "generations_total",
			Help:      "Generations evolved by the memetic optimizer.",
		}),
		Improvements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetabling",
			Name:      "improvements_total",
			Help:      "Generations that improved the best solution, by neighborhood structure.",
		}, []string{"structure"}),
		TabuPushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "timetabling",
			Name:      "tabu_pushes_total",
			Help:      "Neighborhood structures declared tabu.",
		}),
		BestPenalty: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "timetabling",
			Name:      "best_soft_penalty",
			Help:      "Soft constraint penalty of the best known timetable.",
		}),
		ConstructionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetabling",
			Name:      "construction_attempts_total",
			Help:      "Construction attempts of the saturation degree heuristic, by outcome.",
		}, []string{"outcome"}),
	}
}

func (metrics *Metrics) observeConstruction(ok bool) {
	if metrics == nil {
		return
	}
	if ok {
		metrics.ConstructionAttempts.WithLabelValues("completed").Inc()
	} else {
		metrics.ConstructionAttempts.WithLabelValues("restarted").Inc()
	}
}

func (metrics *Metrics) observeGeneration(structure string, improved bool, best float64) {
	if metrics == nil {
		return
	}
	metrics.Generations.Inc()
	metrics.BestPenalty.Set(best)
	if improved {
		metrics.Improvements.WithLabelValues(structure).Inc()
	} else {
		metrics.TabuPushes.Inc()
	}
}
