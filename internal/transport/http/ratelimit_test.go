package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-relay/internal/log"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := newRateLimiter(2)
	r.now = func() time.Time { return now }

	if !r.allow() || !r.allow() {
		t.Fatal("first two events should pass")
	}
	if r.allow() {
		t.Fatal("third event in the same minute should be rejected")
	}

	now = now.Add(time.Minute)
	if !r.allow() {
		t.Fatal("counter should reset after a minute")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *rateLimiter
	if !nilLimiter.allow() {
		t.Fatal("nil limiter must allow")
	}

	r := newRateLimiter(0)
	for range 100 {
		if !r.allow() {
			t.Fatal("zero limit must allow everything")
		}
	}
}

func TestRateLimitHandler(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	h := RateLimit(1, log.Nop(), next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusSwitchingProtocols {
		t.Fatalf("first request should reach the handler, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler called once, got %d", calls)
	}
}
