// Package otel bridges goCAS Authority metrics into an OpenTelemetry
// metric.Meter using observable instruments.
//
// Instrument names match the Prometheus exporter. The latency histogram is
// published as one cumulative gauge per bucket plus a _count gauge.
package otel
