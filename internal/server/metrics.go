// Copyright 2026 The Preflight Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peg/preflight/internal/scanner"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preflight_scans_total",
			Help: "Total number of scans by severity and tier.",
		},
		[]string{"severity", "tier"},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "preflight_scan_duration_seconds",
			Help: "Scan duration in seconds.",
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
			},
		},
	)

	dangerousSignatureCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_dangerous_signatures",
			Help: "Number of loaded dangerous signatures.",
		},
	)

	suspiciousSignatureCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preflight_suspicious_signatures",
			Help: "Number of loaded suspicious signatures.",
		},
	)

	metricsRegistry = prometheus.NewRegistry()
)

func init() {
	metricsRegistry.MustRegister(
		scansTotal,
		scanDuration,
		dangerousSignatureCount,
		suspiciousSignatureCount,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	dangerous, suspicious := scanner.SignatureCounts()
	dangerousSignatureCount.Set(float64(dangerous))
	suspiciousSignatureCount.Set(float64(suspicious))
}

// RecordScan records one completed scan for Prometheus metrics.
func RecordScan(severity, tier string, duration time.Duration) {
	scansTotal.With(prometheus.Labels{"severity": severity, "tier": tier}).Inc()
	scanDuration.Observe(duration.Seconds())
}

// MetricsHandler returns an HTTP handler for the /metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{})
}
