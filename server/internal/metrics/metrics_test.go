package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	m := New()
	m.Evaluations.WithLabelValues("weak").Inc()
	m.Evaluations.WithLabelValues("weak").Inc()
	m.Evaluations.WithLabelValues("strong").Inc()
	m.Generations.Inc()
	m.PolicyRejections.WithLabelValues("minimum-strength").Add(2)

	tot, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 3.0, tot.Evaluations)
	assert.Equal(t, 2.0, tot.ByCategory["weak"])
	assert.Equal(t, 1.0, tot.ByCategory["strong"])
	assert.Equal(t, 1.0, tot.Generations)
	assert.Equal(t, 0.0, tot.Celebrations)
	assert.Equal(t, 2.0, tot.PolicyRejections)
}

func TestTotals_Empty(t *testing.T) {
	tot, err := New().Totals()
	require.NoError(t, err)
	assert.Zero(t, tot.Evaluations)
	assert.NotNil(t, tot.ByCategory)
}

func TestWriteText_RoundTrips(t *testing.T) {
	m := New()
	m.Evaluations.WithLabelValues("moderate").Inc()
	m.Celebrations.Inc()
	m.TrackSessions(func() int { return 4 })

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	mfs, err := ParseText(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sumFamily(mfs["passmeter_evaluations_total"]))
	assert.Equal(t, 1.0, sumFamily(mfs["passmeter_celebrations_total"]))
	assert.Equal(t, 4.0, sumFamily(mfs["passmeter_sessions"]))
	assert.Equal(t, map[string]float64{"moderate": 1}, sumByLabel(mfs["passmeter_evaluations_total"], "category"))
}

func TestHandler_ServesText(t *testing.T) {
	m := New()
	m.Generations.Inc()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "passmeter_generations_total 1")
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	m := New()
	h := m.Middleware("/api/v1/evaluate", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	mfs, err := ParseText(&buf)
	require.NoError(t, err)

	reqs := mfs["passmeter_http_requests_total"]
	require.NotNil(t, reqs)
	require.Len(t, reqs.GetMetric(), 1)
	labels := map[string]string{}
	for _, lp := range reqs.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, map[string]string{"route": "/api/v1/evaluate", "method": "POST", "status": "418"}, labels)
}

func TestMiddleware_DefaultStatusOK(t *testing.T) {
	m := New()
	h := m.Middleware("/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `status="200"`)
}

func TestParseText_Garbage(t *testing.T) {
	_, err := ParseText(bytes.NewBufferString("{{{ not metrics"))
	assert.Error(t, err)
}

func TestMiddleware_PassesHijack(t *testing.T) {
	m := New()
	hijacked := make(chan bool, 1)
	h := m.Middleware("ws", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			hijacked <- false
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			conn.Close()
		}
		hijacked <- err == nil
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err == nil {
		resp.Body.Close()
	}
	assert.True(t, <-hijacked)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.HTTPRequests.WithLabelValues("ws", http.MethodGet, "101")) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("ws", http.MethodGet, "200")))
}

func TestMiddleware_HijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}
