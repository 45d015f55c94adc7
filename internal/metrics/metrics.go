package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "renthub",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "renthub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Subsystem: "ledger",
			Name:      "settlements_total",
			Help:      "Rental settlement attempts by outcome.",
		},
		[]string{"result"},
	)

	creditedCents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Subsystem: "ledger",
			Name:      "credited_cents_total",
			Help:      "Total centavos credited to owners.",
		},
	)

	withdrawals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Subsystem: "withdrawals",
			Name:      "events_total",
			Help:      "Withdrawal lifecycle events.",
		},
		[]string{"action"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renthub",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Scheduled job runs.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "renthub",
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)

	realtimeClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "renthub",
			Subsystem: "realtime",
			Name:      "connected_clients",
			Help:      "Open WebSocket connections.",
		},
	)
)

// Settlement outcomes.
const (
	SettlementCredited     = "credited"
	SettlementDuplicate    = "duplicate"
	SettlementOwnerMissing = "owner_missing"
	SettlementFailed       = "failed"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		settlements,
		creditedCents,
		withdrawals,
		jobRuns,
		jobDuration,
		realtimeClients,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler is a mux middleware recording per-route HTTP metrics.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		if route == "metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordSettlement counts a settlement attempt; amountCents is added only when credited.
func RecordSettlement(result string, amountCents int64) {
	settlements.WithLabelValues(result).Inc()
	if result == SettlementCredited && amountCents > 0 {
		creditedCents.Add(float64(amountCents))
	}
}

func RecordWithdrawal(action string) {
	withdrawals.WithLabelValues(action).Inc()
}

// RecordJobRun records metrics for a scheduled job run.
func RecordJobRun(job string, duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func RealtimeClientConnected()    { realtimeClients.Inc() }
func RealtimeClientDisconnected() { realtimeClients.Dec() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
