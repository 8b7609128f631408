package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("allows requests within burst", func(t *testing.T) {
		rl := NewRateLimiter(10, time.Minute, 3)

		for i := 0; i < 3; i++ {
			if !rl.Allow("client") {
				t.Errorf("request %d should be allowed", i+1)
			}
		}
	})

	t.Run("denies requests over burst", func(t *testing.T) {
		rl := NewRateLimiter(10, time.Minute, 2)

		rl.Allow("client")
		rl.Allow("client")

		if rl.Allow("client") {
			t.Error("third request should be denied")
		}
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		rl := NewRateLimiter(10, time.Minute, 1)

		if !rl.Allow("a") {
			t.Error("first client should be allowed")
		}
		if !rl.Allow("b") {
			t.Error("second client should be allowed")
		}
		if rl.Allow("a") {
			t.Error("first client should now be denied")
		}
	})
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute, 5)

	if got := rl.Remaining("fresh"); got != 5 {
		t.Errorf("Remaining = %d, want 5 for unseen client", got)
	}

	rl.Allow("client")
	if got := rl.Remaining("client"); got != 4 {
		t.Errorf("Remaining = %d, want 4 after one request", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerMinute: 1,
		BurstMultiplier:   1,
	}

	handler := RateLimitMiddleware(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on limited response")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "falls back to remote addr",
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1:1234",
		},
		{
			name:       "prefers x-forwarded-for",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "takes first ip in forwarded chain",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7,10.0.0.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "uses x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
