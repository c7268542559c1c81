// Package metrics holds the Prometheus collectors for the HTTP API and the
// document pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a private Prometheus registry so tests can build as many as
// they like.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UseCases        *prometheus.CounterVec
	UseCaseDuration *prometheus.HistogramVec
	Warnings        *prometheus.CounterVec
	LLMCalls        *prometheus.CounterVec
}

// New creates a Registry with Go runtime and process collectors attached.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glazingpm_http_requests_total",
				Help: "HTTP requests by method, route template and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glazingpm_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route template",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"method", "route"},
		),
		UseCases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glazingpm_use_cases_total",
				Help: "Service use case executions by name and result",
			},
			[]string{"use_case", "result"},
		),
		UseCaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glazingpm_use_case_duration_seconds",
				Help:    "Service use case latency",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 90.0},
			},
			[]string{"use_case"},
		),
		Warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glazingpm_generation_warnings_total",
				Help: "Warnings attached to generated document sets, by code",
			},
			[]string{"code"},
		),
		LLMCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glazingpm_llm_calls_total",
				Help: "LLM calls by task and result code",
			},
			[]string{"task", "code"},
		),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.UseCases,
		r.UseCaseDuration,
		r.Warnings,
		r.LLMCalls,
	)
	return r
}

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveHTTP records one finished request.
func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUseCase records one service use case.
func (r *Registry) ObserveUseCase(name string, success bool, elapsed time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	r.UseCases.WithLabelValues(name, result).Inc()
	r.UseCaseDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveLLMCall counts one finished LLM call.
func (r *Registry) ObserveLLMCall(task, code string) {
	r.LLMCalls.WithLabelValues(task, code).Inc()
}
