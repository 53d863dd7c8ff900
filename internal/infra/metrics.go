package infra

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// API metrics
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_tester_api_requests_total",
		Help: "Total number of HTTP and gRPC requests",
	}, []string{"transport"})
	RequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_tester_api_request_errors_total",
		Help: "Total number of failed HTTP and gRPC requests",
	}, []string{"transport"})
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "perf_tester_api_request_duration_seconds",
		Help:    "Duration of request processing in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"transport"})

	// Measurement metrics
	MeasurementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_tester_measurements_total",
		Help: "Measurement runs by outcome",
	}, []string{"outcome"})
	MeasurementDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "perf_tester_measurement_duration_seconds",
		Help:    "Duration of a single provider invocation in seconds",
		Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
	})

	// Store metrics
	RecordsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "perf_tester_records_persisted_total",
		Help: "Total number of measurement records appended to the store",
	})
	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_tester_store_errors_total",
		Help: "Store failures by operation",
	}, []string{"operation"})

	registerOnce      sync.Once
	metricsServerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all Prometheus collectors used by the application.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestErrorsTotal,
			RequestDurationSeconds,
			MeasurementsTotal,
			MeasurementDurationSeconds,
			RecordsPersistedTotal,
			StoreErrorsTotal,
		)
	})
}

// Handler returns an HTTP handler that exposes the registered Prometheus metrics.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// StartMetricsServer exposes /metrics on addr. An empty addr disables it.
func StartMetricsServer(ctx context.Context, addr string, logger *Logger) {
	if addr == "" {
		return
	}
	InitMetrics()
	metricsServerOnce.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			<-ctx.Done()
			_ = server.Close()
		}()
		go func() {
			logger.Printf(ctx, "metrics server listening on %s", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warnf(ctx, "metrics server error: %v", err)
			}
		}()
	})
}

// WriteTextfile dumps the default registry to path in the node_exporter
// textfile format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	InitMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// ObserveMeasurement records the outcome and duration of one provider call.
func ObserveMeasurement(outcome string, duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	MeasurementsTotal.WithLabelValues(outcome).Inc()
	MeasurementDurationSeconds.Observe(duration.Seconds())
}

// RecordPersisted increments the appended records counter.
func RecordPersisted() {
	InitMetrics()
	RecordsPersistedTotal.Inc()
}

// RecordStoreError increments the store failure counter for operation.
func RecordStoreError(operation string) {
	InitMetrics()
	StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// HTTPMiddleware instruments HTTP handlers with request/latency metrics.
func HTTPMiddleware(next http.Handler) http.Handler {
	InitMetrics()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			RequestDurationSeconds.WithLabelValues("http").Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues("http").Inc()
			if recorder.Status() >= http.StatusBadRequest {
				RequestErrorsTotal.WithLabelValues("http").Inc()
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// GRPCUnaryInterceptor instruments gRPC unary handlers with request/latency metrics.
func GRPCUnaryInterceptor() grpc.UnaryServerInterceptor {
	InitMetrics()
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()

		defer func() {
			RequestDurationSeconds.WithLabelValues("grpc").Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues("grpc").Inc()
			if status.Code(err) != codes.OK {
				RequestErrorsTotal.WithLabelValues("grpc").Inc()
			}
		}()

		return handler(ctx, req)
	}
}

// statusRecorder captures the response status code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Status() int {
	return r.status
}
