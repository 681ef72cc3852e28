package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/personai/briefmock/internal/gateway"
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     *prometheus.CounterVec
	AuthFailures    *prometheus.CounterVec
	LimiterErrors   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefmock_requests_total",
				Help: "Total HTTP requests processed by the mock",
			},
			[]string{"operation", "method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "briefmock_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),
		RateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefmock_rate_limited_total",
				Help: "Total requests rejected due to rate limiting",
			},
			[]string{"operation"},
		),
		AuthFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefmock_auth_failures_total",
				Help: "Total requests rejected for expired or missing credentials",
			},
			[]string{"operation"},
		),
		LimiterErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "briefmock_limiter_errors_total",
				Help: "Total rate limiter errors",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.RateLimited, m.AuthFailures, m.LimiterErrors)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Middleware records per-request metrics. The operation label comes from
// the supplied resolver; paths in skip are not measured.
func (m *Metrics) Middleware(skip map[string]struct{}, operation func(*http.Request) string) gateway.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			op := "unknown"
			if operation != nil {
				if name := operation(r); name != "" {
					op = name
				}
			}

			method := r.Method
			code := rec.status
			if code == 0 {
				code = http.StatusOK
			}

			m.RequestDuration.WithLabelValues(op, method).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(op, method, strconv.Itoa(code)).Inc()
		})
	}
}
