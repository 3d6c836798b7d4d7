// Package metric provides Prometheus-based metrics collection for the schema
// generation pipeline.
//
// The package offers a centralized metrics registry managing both core
// pipeline metrics (generation passes, emitted pieces, provider failures,
// validation errors/warnings) and custom component-specific metrics.
//
// # Architecture
//
// The package follows a two-layer design:
//
//  1. Core Metrics: pipeline-level metrics automatically registered (Metrics type)
//  2. Component Registry: extensible registration for component-specific metrics
//     (MetricsRegistrar interface), used by the cache to expose hit/miss counters
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//
//	// Record core pipeline metrics
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.RecordGenerationPass("home", "success")
//	coreMetrics.RecordValidationError("Organization")
//
// Component-specific metrics register through the MetricsRegistrar interface:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{...})
//	if err := registry.RegisterCounter("memo_cache", "hits", counter); err != nil {
//	    return err
//	}
//
// Exposing the registry over HTTP is the hosting integration's concern; the
// underlying *prometheus.Registry is available via PrometheusRegistry() for
// promhttp wiring.
package metric
