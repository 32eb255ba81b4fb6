package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collectors live on a private registry exposed by Handler.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	expenseUpserts  *prometheus.CounterVec
	chatResults     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_backend",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense_backend",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		expenseUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_backend",
			Name:      "expense_upserts_total",
			Help:      "Accepted expenses, split by whether the category was new.",
		}, []string{"result"}),
		chatResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_backend",
			Name:      "chat_relay_results_total",
			Help:      "Chat relay attempts by outcome and failure reason.",
		}, []string{"outcome", "reason"}),
	}
	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.expenseUpserts,
		m.chatResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveUpsert(created bool) {
	if m == nil {
		return
	}
	result := "accumulated"
	if created {
		result = "created"
	}
	m.expenseUpserts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveChat(outcome, reason string) {
	if m == nil {
		return
	}
	m.chatResults.WithLabelValues(outcome, reason).Inc()
}
