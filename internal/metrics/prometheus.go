package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer records domain events from the service layer.
type Observer interface {
	RecordMutation(entity, op string)
	RecordVersion()
}

type prometheusObserver struct {
	mutationCounter *prometheus.CounterVec
	versionCounter  prometheus.Counter
}

var (
	mutationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flagdeck_mutations_total",
		Help: "Total number of committed mutating operations.",
	}, []string{"entity", "op"})
	versionCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flagdeck_versions_written_total",
		Help: "Total number of config version rows written.",
	})
)

func NewPrometheusObserver() Observer {
	return &prometheusObserver{
		mutationCounter: mutationCounter,
		versionCounter:  versionCounter,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusObserver) RecordMutation(entity, op string) {
	p.mutationCounter.WithLabelValues(entity, op).Inc()
}

func (p *prometheusObserver) RecordVersion() {
	p.versionCounter.Inc()
}

type noopObserver struct{}

// NewNoopObserver returns an Observer that discards everything. Used in
// tests.
func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) RecordMutation(string, string) {}
func (noopObserver) RecordVersion()                {}
