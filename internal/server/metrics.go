package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_service_requests_total",
		Help: "Total number of HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	errorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_service_errors_total",
		Help: "Total number of server error responses, by status.",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(errorCounter)
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

// requestMetrics records one counter increment per handled request, labeled
// with the chi route pattern rather than the raw path.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}
