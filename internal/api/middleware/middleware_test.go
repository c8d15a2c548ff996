package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRequestIDReplacesNonUUID(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\"\ninjected")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("context id %q is not a UUID", got)
	}
	if rec.Header().Get(RequestIDHeader) != got {
		t.Errorf("response header %q does not match context id %q",
			rec.Header().Get(RequestIDHeader), got)
	}
}

func TestRequestIDHonorsValidUUID(t *testing.T) {
	supplied := uuid.NewString()
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, supplied)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got != supplied {
		t.Errorf("got id %q, want caller-supplied %q", got, supplied)
	}
}

func TestCountClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		clientErrors int64
		serverErrors int64
	}{
		{name: "success", status: http.StatusOK},
		{name: "client error", status: http.StatusNotFound, clientErrors: 1},
		{name: "server error", status: http.StatusInternalServerError, serverErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Counters
			h := Count(&c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if got := c.Requests.Load(); got != 1 {
				t.Errorf("Requests = %d, want 1", got)
			}
			if got := c.ClientErrors.Load(); got != tt.clientErrors {
				t.Errorf("ClientErrors = %d, want %d", got, tt.clientErrors)
			}
			if got := c.ServerErrors.Load(); got != tt.serverErrors {
				t.Errorf("ServerErrors = %d, want %d", got, tt.serverErrors)
			}
		})
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("requests within burst should be allowed")
	}
	if rl.Allow("a") {
		t.Error("request past burst should be limited")
	}
	if !rl.Allow("b") {
		t.Error("a different caller has its own bucket")
	}
}

func TestRateLimiterEvictsStaleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("old")
	rl.Allow("fresh")
	rl.clients["old"].lastSeen = time.Now().Add(-time.Hour)

	rl.evictStale(staleClientAge)

	if _, ok := rl.clients["old"]; ok {
		t.Error("idle caller survived eviction")
	}
	if _, ok := rl.clients["fresh"]; !ok {
		t.Error("active caller was evicted")
	}
}

func TestRateLimiterStartStop(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Start()
	rl.Stop()
}
