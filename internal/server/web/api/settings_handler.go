package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/server/pages"
	"github.com/pandeptwidyaop/linkprefs/internal/server/web/middleware"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// SettingsPath is where the link preview domains section is served.
const SettingsPath = "/settings/link_preview_domains"

// showSection renders the section, expanded when ?active=true.
func (h *Handler) showSection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())
	active, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	section := linkpreview.NewSection(userID, h.store, nil, linkpreview.WithTranslator(h.tr))
	h.renderSection(w, r, http.StatusOK, section, active)
}

// sectionAction runs one form action against a fresh section. Success
// redirects to wherever the section asked the panel to go; failure
// re-renders the expanded section with the error and the retained input.
func (h *Handler) sectionAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r.Context())

	// Submit and Expand report the next active section through this callback
	target := linkpreview.SectionID
	section := linkpreview.NewSection(userID, h.store, func(next string) {
		target = next
	}, linkpreview.WithTranslator(h.tr))

	var err error
	switch action := r.PathValue("action"); action {
	case "add":
		section.SetInput(r.PostFormValue("domain"))
		err = section.AddDomain(r.Context())
		if errors.Is(err, apperrors.ErrEmptyInput) {
			err = nil
		}
	case "toggle":
		domain, ok := linkpreview.TrackedDomain(r.PostFormValue("domain"))
		enabled, parseErr := strconv.ParseBool(r.PostFormValue("enabled"))
		if !ok || parseErr != nil {
			pages.WriteError(w, http.StatusBadRequest, "domain and enabled are required")
			return
		}
		err = section.ToggleDomain(r.Context(), domain, enabled)
	case "remove":
		domain, ok := linkpreview.TrackedDomain(r.PostFormValue("domain"))
		if !ok {
			pages.WriteError(w, http.StatusBadRequest, "domain is required")
			return
		}
		err = section.RemoveDomain(r.Context(), domain)
	case "submit":
		section.Submit()
	case "expand":
		section.Expand()
	default:
		pages.WriteError(w, http.StatusNotFound, "unknown action "+strconv.Quote(action))
		return
	}

	if err != nil {
		logger.DebugEvent().Err(err).Str("user_id", userID).Msg("Link preview section action failed")
		h.renderSection(w, r, http.StatusUnprocessableEntity, section, true)
		return
	}

	http.Redirect(w, r, sectionURL(target == linkpreview.SectionID), http.StatusSeeOther)
}

func (h *Handler) renderSection(w http.ResponseWriter, r *http.Request, status int, section *linkpreview.Section, active bool) {
	snapshot, err := h.store.GetMyPreferences(r.Context(), section.UserID())
	if err != nil {
		logger.ErrorEvent().Err(err).Str("user_id", section.UserID()).Msg("Failed to load preferences")
		pages.WriteError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	token, err := h.csrf.GenerateToken(section.UserID())
	if err != nil {
		logger.ErrorEvent().Err(err).Msg("Failed to generate CSRF token")
		pages.WriteError(w, http.StatusInternalServerError, "")
		return
	}

	pages.WriteSection(w, status, pages.SectionPage{
		View:      section.View(snapshot, active, false),
		BasePath:  SettingsPath,
		CSRFToken: token,
	})
}

func sectionURL(active bool) string {
	if !active {
		return SettingsPath
	}
	return SettingsPath + "?" + url.Values{"active": {"true"}}.Encode()
}
