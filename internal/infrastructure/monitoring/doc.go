/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
workspace service, tracking HTTP requests, workspace operations, the size
of the file index and the occupancy of the recycle bin.

# Features

- HTTP request metrics (latency, throughput, size)
- Operation metrics (duration, errors by kind)
- Index and recycle bin gauges
- Manifest write outcomes
- Go runtime and process collectors

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Time operations
	timer := monitoring.NewTimer(metrics, "create")
	// ... perform operation ...
	timer.Stop("")

# Metrics Endpoint

Each collector owns its registry. Expose it with:

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
