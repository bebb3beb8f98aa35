package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"creditd/internal/ratelimit"
)

type captureStats struct {
	mu     sync.Mutex
	events []ratelimit.StatsEvent
}

func (s *captureStats) Record(ctx context.Context, ev ratelimit.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestRateLimit_RejectsBurst(t *testing.T) {
	t.Parallel()

	gov := ratelimit.NewGovernor(ratelimit.Config{
		Window: 30 * time.Second,
		Max:    3,
		MinGap: time.Second,
	})
	stats := &captureStats{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(gov, stats)(next)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPut, "/user/42", nil)
		r.RemoteAddr = "10.0.0.1:4321"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	if w := send(); w.Code != http.StatusOK {
		t.Fatalf("first request: status %d", w.Code)
	}
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("immediate second request: status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on rejection")
	}

	stats.mu.Lock()
	defer stats.mu.Unlock()
	if len(stats.events) != 2 || !stats.events[0].Allowed || stats.events[1].Allowed {
		t.Fatalf("unexpected stats events: %+v", stats.events)
	}
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"remote addr with port", "10.0.0.1:4321", "", "10.0.0.1"},
		{"x-forwarded-for wins", "10.0.0.1:4321", "203.0.113.9", "203.0.113.9"},
		{"first xff hop", "10.0.0.1:4321", "203.0.113.9, 70.1.2.3", "203.0.113.9"},
		{"bare remote addr", "10.0.0.2", "", "10.0.0.2"},
		{"nothing known", "", "", "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := ClientKey(r); got != tc.want {
				t.Fatalf("ClientKey = %q, want %q", got, tc.want)
			}
		})
	}
}
