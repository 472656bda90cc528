package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCSRF_GenerateToken tests CSRF token generation
func TestCSRF_GenerateToken(t *testing.T) {
	csrf := NewCSRFProtection(time.Hour)
	defer csrf.Stop()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := csrf.GenerateToken("user1")
		require.NoError(t, err)
		assert.Greater(t, len(token), 40)
		assert.False(t, seen[token], "duplicate token")
		seen[token] = true
	}
}

// TestCSRF_ValidateToken tests single-use and expiry
func TestCSRF_ValidateToken(t *testing.T) {
	csrf := NewCSRFProtection(time.Hour)
	defer csrf.Stop()

	token, err := csrf.GenerateToken("user1")
	require.NoError(t, err)

	assert.False(t, csrf.ValidateToken(token, "user2"), "tokens belong to one user")
	assert.True(t, csrf.ValidateToken(token, "user1"))
	assert.False(t, csrf.ValidateToken(token, "user1"), "tokens are single-use")
	assert.False(t, csrf.ValidateToken("", "user1"))
	assert.False(t, csrf.ValidateToken("unknown", "user1"))

	short := NewCSRFProtection(time.Millisecond)
	defer short.Stop()
	stale, err := short.GenerateToken("user1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	assert.False(t, short.ValidateToken(stale, "user1"))
}

// TestCSRF_Protect tests the middleware with header and form tokens
func TestCSRF_Protect(t *testing.T) {
	csrf := NewCSRFProtection(time.Hour)
	defer csrf.Stop()

	handler := csrf.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	asUser := func(r *http.Request, userID string) *http.Request {
		return r.WithContext(SetClaimsInContext(r.Context(), &Claims{UserID: userID}))
	}

	t.Run("GET passes without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/link_preview_domains", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("POST without token is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("POST with header token", func(t *testing.T) {
		token, err := csrf.GenerateToken("user1")
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", nil), "user1")
		req.Header.Set("X-CSRF-Token", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("POST with form token", func(t *testing.T) {
		token, err := csrf.GenerateToken("user1")
		require.NoError(t, err)

		form := url.Values{CSRFFormField: {token}, "domain": {"example.com"}}
		req := asUser(httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", strings.NewReader(form.Encode())), "user1")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		// Replaying the same token fails
		req = asUser(httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", strings.NewReader(form.Encode())), "user1")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("POST with another user's token is forbidden", func(t *testing.T) {
		token, err := csrf.GenerateToken("user1")
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", nil), "user2")
		req.Header.Set("X-CSRF-Token", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		// The owner can still use it
		req = asUser(httptest.NewRequest(http.MethodPost, "/settings/link_preview_domains/add", nil), "user1")
		req.Header.Set("X-CSRF-Token", token)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
