package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the generation pipeline.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	generationsTotal   *prometheus.CounterVec
	generationDuration prometheus.Observer
	solverSolveTime    prometheus.Observer
	assignmentsWritten prometheus.Observer
}

// Generation outcome labels.
const (
	GenerationOutcomeSucceeded    = "succeeded"
	GenerationOutcomeEmpty        = "empty"
	GenerationOutcomeSubmitFailed = "submit_failed"
	GenerationOutcomeSolverFailed = "solver_failed"
	GenerationOutcomeError        = "error"
)

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Total schedule generation runs by outcome",
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "End-to-end duration of generation runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	solverSolveTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_solve_time_seconds",
		Help:    "Solve time reported by the external solver",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	assignmentsWritten := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_assignments_persisted",
		Help:    "Assignments persisted per generation run",
		Buckets: []float64{0, 10, 50, 100, 250, 500, 1000},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationsTotal, generationDuration, solverSolveTime, assignmentsWritten, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationsTotal:   generationsTotal,
		generationDuration: generationDuration,
		solverSolveTime:    solverSolveTime,
		assignmentsWritten: assignmentsWritten,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records the outcome of one generation run.
func (m *MetricsService) ObserveGeneration(outcome string, duration time.Duration, solveTimeSec float64, persisted int) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(duration.Seconds())
	if solveTimeSec > 0 {
		m.solverSolveTime.Observe(solveTimeSec)
	}
	m.assignmentsWritten.Observe(float64(persisted))
}
