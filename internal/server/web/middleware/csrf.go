package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

// CSRFFormField is the hidden form field the settings forms carry the token in.
const CSRFFormField = "csrf_token"

// CSRFProtection issues single-use tokens for the settings forms. A token
// is only accepted from the user it was issued to.
type CSRFProtection struct {
	tokens   map[string]csrfToken
	ttl      time.Duration
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

type csrfToken struct {
	userID string
	expiry time.Time
}

// NewCSRFProtection creates a new CSRF protection middleware.
// Call Stop to end its cleanup loop.
func NewCSRFProtection(ttl time.Duration) *CSRFProtection {
	if ttl <= 0 {
		ttl = time.Hour
	}
	csrf := &CSRFProtection{
		tokens: make(map[string]csrfToken),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}

	go csrf.cleanupLoop(10 * time.Minute)

	return csrf
}

// Stop ends the cleanup loop.
func (c *CSRFProtection) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// GenerateToken creates a new CSRF token for userID.
func (c *CSRFProtection) GenerateToken(userID string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	token := base64.RawURLEncoding.EncodeToString(b)

	c.mu.Lock()
	c.tokens[token] = csrfToken{userID: userID, expiry: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return token, nil
}

// ValidateToken consumes token and reports whether it was live and issued
// to userID. A token presented by another user is left in place.
func (c *CSRFProtection) ValidateToken(token, userID string) bool {
	if token == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	issued, exists := c.tokens[token]
	if !exists || issued.userID != userID {
		return false
	}
	delete(c.tokens, token)

	return time.Now().Before(issued.expiry)
}

// Protect rejects state-changing requests without a valid token. The
// token is read from the X-CSRF-Token header or the csrf_token form field.
func (c *CSRFProtection) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			token = r.PostFormValue(CSRFFormField)
		}
		if !c.ValidateToken(token, CurrentUserID(r.Context())) {
			http.Error(w, "Invalid or missing CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (c *CSRFProtection) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for token, issued := range c.tokens {
				if now.After(issued.expiry) {
					delete(c.tokens, token)
				}
			}
			c.mu.Unlock()
		}
	}
}
