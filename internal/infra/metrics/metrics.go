package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded by the region resolver
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
)

// Region update results
const (
	UpdateCommitted = "committed"
	UpdateStale     = "stale"
	UpdateInvalid   = "invalid"
)

var (
	GeometryFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regionmap_geometry_fetches_total",
		Help: "Sub-region geometry fetches by outcome",
	}, []string{"outcome"})
	GeometryCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regionmap_geometry_cache_total",
		Help: "Geometry cache lookups by result",
	}, []string{"result"})
	ResolveDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "regionmap_resolve_duration_ms",
		Help:    "Duration of a full regions resolve cycle in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	})
	RegionUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regionmap_region_updates_total",
		Help: "Regions attribute updates by result",
	}, []string{"result"})
	SelectionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "regionmap_selection_transitions_total",
		Help: "Selection state transitions by trigger and transition",
	}, []string{"trigger", "transition"})
	EventPublishFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "regionmap_event_publish_failures_total",
		Help: "Region selected events that could not be published",
	})
)

func init() {
	prometheus.MustRegister(GeometryFetchesTotal)
	prometheus.MustRegister(GeometryCacheTotal)
	prometheus.MustRegister(ResolveDurationMs)
	prometheus.MustRegister(RegionUpdatesTotal)
	prometheus.MustRegister(SelectionTransitionsTotal)
	prometheus.MustRegister(EventPublishFailuresTotal)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
