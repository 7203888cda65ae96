// Package prometheus exposes goCAS Authority metrics through client_golang.
//
// [NewCollector] implements prometheus.Collector; [Handler] mounts it on a
// private registry so nothing is registered globally. Counters are named
// gocas_*_total and the verification latency histogram is
// gocas_verify_latency_seconds.
package prometheus
