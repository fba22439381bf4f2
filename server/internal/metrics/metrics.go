package metrics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "passmeter"

// Metrics holds every passmeter series.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations      *prometheus.CounterVec
	Analyses         prometheus.Counter
	Generations      prometheus.Counter
	Celebrations     prometheus.Counter
	PolicyRejections *prometheus.CounterVec
	RateLimited      prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	WSConnections    prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Password evaluations by resulting category",
		}, []string{"category"}),
		Analyses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Complexity analyses performed",
		}),
		Generations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Passwords generated",
		}),
		Celebrations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "celebrations_total",
			Help:      "Strong-password celebrations fired",
		}),
		PolicyRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_rejections_total",
			Help:      "Policy rule violations by rule name",
		}, []string{"rule"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route"}),
		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open live-field WebSocket connections",
		}),
	}
}

// TrackSessions exposes the current session count through fn.
func (m *Metrics) TrackSessions(fn func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions",
		Help:      "Live REST sessions",
	}, func() float64 { return float64(fn()) }))
}

// Handler serves the registry, negotiating the exposition format from the
// request's Accept header.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := expfmt.Negotiate(r.Header)
		w.Header().Set("Content-Type", string(format))
		if err := m.Write(w, format); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// Write encodes every gathered family to w in format.
func (m *Metrics) Write(w io.Writer, format expfmt.Format) error {
	mfs, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	if c, ok := enc.(expfmt.Closer); ok {
		return c.Close()
	}
	return nil
}

// WriteText encodes the registry in the plain-text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	return m.Write(w, expfmt.NewFormat(expfmt.TypeTextPlain))
}

// Middleware records request count and latency for route.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

// Totals summarises the counters for the health endpoint.
type Totals struct {
	Evaluations      float64            `json:"evaluations"`
	ByCategory       map[string]float64 `json:"by_category"`
	Generations      float64            `json:"generations"`
	Celebrations     float64            `json:"celebrations"`
	PolicyRejections float64            `json:"policy_rejections"`
}

// Totals gathers the registry and sums the passmeter counters.
func (m *Metrics) Totals() (Totals, error) {
	mfs, err := m.registry.Gather()
	if err != nil {
		return Totals{}, fmt.Errorf("metrics: gather: %w", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}

	evals := byName[namespace+"_evaluations_total"]
	return Totals{
		Evaluations:      sumFamily(evals),
		ByCategory:       sumByLabel(evals, "category"),
		Generations:      sumFamily(byName[namespace+"_generations_total"]),
		Celebrations:     sumFamily(byName[namespace+"_celebrations_total"]),
		PolicyRejections: sumFamily(byName[namespace+"_policy_rejections_total"]),
	}, nil
}

// ParseText decodes a text exposition into metric families keyed by name.
// A partial result with a non-fatal parse warning is still returned.
func ParseText(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("metrics: parse text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil.
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		total += metricValue(m)
	}
	return total
}

// sumByLabel groups a family's values by the given label.
func sumByLabel(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label {
				out[lp.GetValue()] += metricValue(m)
			}
		}
	}
	return out
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes through to the wrapped writer so WebSocket upgrades work
// behind the middleware. A hijacked request is recorded as 101.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	conn, rw, err := h.Hijack()
	if err == nil {
		r.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
