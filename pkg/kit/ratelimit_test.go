package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_Window(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("first two hits must pass")
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("third hit inside window must be limited")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatalf("other ip must not be limited")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatalf("hit after window must pass")
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusCreated {
		t.Fatalf("status=%d", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("retry-after=%q", rec.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:5555"
	if got := ClientIP(req); got != "192.168.1.9" {
		t.Fatalf("ip=%q", got)
	}

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 ,10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("ip=%q", got)
	}
}
