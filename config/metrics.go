package config

import "github.com/prometheus/client_golang/prometheus"

var (
	reloadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "strata_config_reload_total",
		Help: "Total configuration reload attempts, labeled by outcome.",
	}, []string{"outcome"})

	reloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "strata_config_reload_duration_seconds",
		Help: "Time taken to load, merge, bind, and validate configuration.",
	})

	sourcesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "strata_config_sources_loaded",
		Help: "Number of property sources present in the environment after the last reload.",
	})
)

func init() {
	prometheus.MustRegister(reloadTotal, reloadDuration, sourcesLoaded)
}

func observeReload(outcome string, seconds float64, sourceCount int) {
	reloadTotal.WithLabelValues(outcome).Inc()
	reloadDuration.Observe(seconds)
	sourcesLoaded.Set(float64(sourceCount))
}
