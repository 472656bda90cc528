package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pandeptwidyaop/linkprefs/internal/config"
	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	"github.com/pandeptwidyaop/linkprefs/internal/server/web/middleware"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// maxBodyBytes caps preference batch uploads.
const maxBodyBytes = 1 << 20

// PreferenceStore is the persistence the handlers need.
type PreferenceStore interface {
	preferences.Saver
	preferences.Source
	GetCategory(ctx context.Context, userID, category string) ([]preferences.Preference, error)
}

// Handler serves the preferences API and the settings pages
type Handler struct {
	store   PreferenceStore
	config  *config.Config
	authMW  *middleware.AuthMiddleware
	limiter *middleware.RateLimiter
	csrf    *middleware.CSRFProtection
	tr      linkpreview.Translator
}

// NewHandler creates a new API handler
func NewHandler(store PreferenceStore, cfg *config.Config) *Handler {
	return &Handler{
		store:   store,
		config:  cfg,
		authMW:  middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		limiter: middleware.NewRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst),
		csrf:    middleware.NewCSRFProtection(0),
		tr:      linkpreview.NewTranslator(cfg.Previews.Language),
	}
}

// Close stops the handler's background loops.
func (h *Handler) Close() {
	h.limiter.Stop()
	h.csrf.Stop()
}

// Auth returns the middleware used to mint and verify tokens.
func (h *Handler) Auth() *middleware.AuthMiddleware {
	return h.authMW
}

// protect applies authentication then per-user rate limiting.
func (h *Handler) protect(next http.HandlerFunc) http.Handler {
	return h.authMW.Protect(h.limiter.Limit(next))
}

// protectPage additionally applies page headers and CSRF checks.
func (h *Handler) protectPage(next http.HandlerFunc) http.Handler {
	return middleware.SecurityHeaders(h.authMW.Protect(h.limiter.Limit(h.csrf.Protect(next))))
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	versionHandler := NewVersionHandler()

	// Public routes
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/version", versionHandler.GetVersion)

	// Preferences API (require JWT)
	mux.Handle("GET /api/users/me/preferences", h.protect(h.getMyPreferences))
	mux.Handle("PUT /api/users/me/preferences", h.protect(h.savePreferences))
	mux.Handle("GET /api/users/me/preferences/{category}", h.protect(h.getCategory))
	mux.Handle("GET /api/users/me/link_previews/check", h.protect(h.checkLinkPreview))

	// Settings section pages
	mux.Handle("GET "+SettingsPath, h.protectPage(h.showSection))
	mux.Handle("POST "+SettingsPath+"/{action}", h.protectPage(h.sectionAction))
}

// Routes returns the full handler chain with access logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return middleware.HTTPLoggerWithLevel(mux, h.config.Server.HTTPLogLevel)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.WarnEvent().Err(err).Msg("Failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getMyPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())

	mapping, err := h.store.GetMyPreferences(r.Context(), userID)
	if err != nil {
		logger.ErrorEvent().Err(err).Str("user_id", userID).Msg("Failed to load preferences")
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	respondJSON(w, http.StatusOK, mapping)
}

func (h *Handler) savePreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())

	var prefs []preferences.Preference
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&prefs); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SavePreferences(r.Context(), userID, prefs); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPreferenceOwner):
			respondError(w, http.StatusForbidden, apperrors.ServerMessage(err))
		case errors.Is(err, apperrors.ErrInvalidPreference):
			respondError(w, http.StatusBadRequest, apperrors.ServerMessage(err))
		default:
			logger.ErrorEvent().Err(err).Str("user_id", userID).Int("count", len(prefs)).Msg("Failed to save preferences")
			respondError(w, http.StatusInternalServerError, "Failed to save preferences")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())
	category := r.PathValue("category")

	prefs, err := h.store.GetCategory(r.Context(), userID, category)
	if err != nil {
		logger.ErrorEvent().Err(err).Str("user_id", userID).Str("category", category).Msg("Failed to load preference category")
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}
	if prefs == nil {
		prefs = []preferences.Preference{}
	}

	respondJSON(w, http.StatusOK, prefs)
}

func (h *Handler) checkLinkPreview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	mapping, err := h.store.GetMyPreferences(r.Context(), userID)
	if err != nil {
		logger.ErrorEvent().Err(err).Str("user_id", userID).Msg("Failed to load preferences")
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	decision := linkpreview.PreviewAllowed(mapping, rawURL, h.config.Previews.DefaultEnabled)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"url":            rawURL,
		"allowed":        decision.Allowed,
		"matched_domain": decision.MatchedDomain,
	})
}
