/*
Package monitoring provides metrics collection for the studio service.

# Overview

This package implements Prometheus-based metrics on a dedicated registry,
tracking HTTP requests, generation cycles, store sizes, persistence writes
and WebSocket traffic.

# Features

- HTTP request metrics (latency, throughput, size)
- Render outcomes and generation durations
- In-flight and rejected generations
- Session, message and collection counts
- Snapshot write counts, sizes and failures
- WebSocket connection metrics
- Go runtime and process collectors

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(monitoring.Handler(metrics)))

	// Record a finished generation cycle
	metrics.RecordRender("success", elapsed)

A nil *Metrics records nothing, which keeps store tests free of a registry.
*/
package monitoring
