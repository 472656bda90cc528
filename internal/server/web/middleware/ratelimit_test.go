package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestRateLimit_BurstAllow tests burst allowance
func TestRateLimit_BurstAllow(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1.0), 3)
	defer rl.Stop()
	handler := rl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "Request %d should succeed", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
}

// TestRateLimit_PerUser tests that authenticated users get their own bucket
func TestRateLimit_PerUser(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	defer rl.Stop()
	handler := rl.Limit(okHandler())

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		if userID != "" {
			req = req.WithContext(SetClaimsInContext(req.Context(), &Claims{UserID: userID}))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"), "same IP, different user")
	assert.Equal(t, http.StatusOK, send(""), "anonymous is keyed by IP")
	assert.Equal(t, http.StatusTooManyRequests, send(""))
}

// TestRateLimit_ForwardedHeaderIgnored tests that X-Forwarded-For cannot pick a bucket
func TestRateLimit_ForwardedHeaderIgnored(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	defer rl.Stop()
	handler := rl.Limit(okHandler())

	for i, spoof := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.2:5555"
		req.Header.Set("X-Forwarded-For", spoof)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}

// TestRateLimit_EvictIdle tests idle visitor cleanup
func TestRateLimit_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1.0), 1)
	defer rl.Stop()

	rl.getVisitor("ip:1.2.3.4")
	rl.mu.Lock()
	rl.visitors["ip:1.2.3.4"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()
	rl.getVisitor("ip:5.6.7.8")

	rl.evictIdle(10 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "ip:1.2.3.4")
	assert.Contains(t, rl.visitors, "ip:5.6.7.8")
}
