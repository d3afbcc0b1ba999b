package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdf_digest_config_load_timestamp_seconds",
		Help: "Unix timestamp of the last successful configuration load",
	})

	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdf_digest_config_loads_total",
		Help: "Configuration loads by result (ok, invalid)",
	}, []string{"result"})
)

func recordLoad(ok bool) {
	if !ok {
		loadsTotal.WithLabelValues("invalid").Inc()
		return
	}
	loadsTotal.WithLabelValues("ok").Inc()
	loadTimestamp.SetToCurrentTime()
}
