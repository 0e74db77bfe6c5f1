package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecfr_cache_lookups_total",
		Help: "Analytics cache lookups by backend and result (hit, miss, error).",
	}, []string{"backend", "result"})

	writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecfr_cache_writes_total",
		Help: "Analytics cache records written by the warm job.",
	}, []string{"backend"})
)
