package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func request(remote string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", nil)
	r.RemoteAddr = remote
	return r
}

func TestAllow_BurstThenReject(t *testing.T) {
	l := New(1, 3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("a"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("a"))
}

func TestAllow_PerClientBuckets(t *testing.T) {
	l := New(1, 1, time.Minute)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "other clients keep their own bucket")
	assert.Equal(t, 2, l.Clients())
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1, time.Minute)
	rejected := 0
	l.OnReject(func() { rejected++ })
	h := l.Middleware(okHandler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, request("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, request("10.0.0.1:5001")) // same host, new port
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())
	assert.Equal(t, 1, rejected)
}

func TestBucket_ConcurrentCreateSharesLimiter(t *testing.T) {
	l := New(1, 10, time.Minute)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("same") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, allowed, 11, "burst shared across racing creators")
	assert.Equal(t, 1, l.Clients())
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "192.0.2.7", ClientKey(request("192.0.2.7:1234")))
	assert.Equal(t, "::1", ClientKey(request("[::1]:80")))
	assert.Equal(t, "unix", ClientKey(request("unix")))
}
