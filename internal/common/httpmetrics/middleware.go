package httpmetrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hirehub/backend/internal/observability/metrics"
)

// Collector records request counts, in-flight requests and latency for one
// service. Scrapes of /metrics are not counted.
type Collector struct {
	service string
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack keeps the recorder usable in front of the WebSocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func New(service string) *Collector {
	return &Collector{service: service}
}

func (c *Collector) Wrap(next http.Handler) http.Handler {
	inFlight := metrics.HTTPRequestsInFlight.WithLabelValues(c.service)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		path := NormalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(c.service, r.Method, path).Inc()
		inFlight.Inc()
		defer inFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(c.service, r.Method, path, statusClass(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
