package linkpreview

import (
	"context"
	"errors"
	"sync"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// State is the section's local, ephemeral state.
type State struct {
	DomainInput string
	Saving      bool
	ServerError string
}

// Section drives one instance of the settings section. All changes go
// through the Saver; the section never holds preference data of its own.
// A Section is safe for concurrent use. While one save is in flight every
// other action is rejected with ErrBusy.
type Section struct {
	userID        string
	saver         preferences.Saver
	updateSection func(section string)
	tr            Translator

	mu    sync.Mutex
	state State
}

// Option configures a Section.
type Option func(*Section)

// WithTranslator sets the message translator.
func WithTranslator(tr Translator) Option {
	return func(s *Section) {
		s.tr = tr
	}
}

// NewSection creates a section for userID. updateSection is how the section
// asks the enclosing panel to change the active section; it may be nil.
func NewSection(userID string, saver preferences.Saver, updateSection func(string), opts ...Option) *Section {
	s := &Section{
		userID:        userID,
		saver:         saver,
		updateSection: updateSection,
		tr:            DefaultTranslator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the owner of the section.
func (s *Section) UserID() string {
	return s.userID
}

// State returns a copy of the current local state.
func (s *Section) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInput replaces the pending domain text.
func (s *Section) SetInput(v string) {
	s.mu.Lock()
	s.state.DomainInput = v
	s.mu.Unlock()
}

// PlanAdd turns raw input into the preference an add would save.
// It returns ErrEmptyInput for blank input and ErrInvalidDomain when the
// normalized domain does not validate.
func PlanAdd(userID, raw string) (preferences.Preference, error) {
	domain, ok := NormalizeDomain(raw)
	if !ok {
		return preferences.Preference{}, apperrors.ErrEmptyInput
	}
	if !ValidDomain(domain) {
		return preferences.Preference{}, apperrors.ErrInvalidDomain
	}
	return newPreference(userID, domain, ValueDisabled), nil
}

// PlanToggle returns the preference that sets domain to enabled.
func PlanToggle(userID, domain string, enabled bool) preferences.Preference {
	return newPreference(userID, domain, boolValue(enabled))
}

// PlanRemove returns the preference that stops tracking domain.
func PlanRemove(userID, domain string) preferences.Preference {
	return newPreference(userID, domain, ValueRemoved)
}

// AddDomain validates the pending input and saves it as a disabled domain.
// Blank input is a no-op returning ErrEmptyInput. Invalid input sets the
// validation message and returns ErrInvalidDomain without saving.
func (s *Section) AddDomain(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Saving {
		s.mu.Unlock()
		return apperrors.ErrBusy
	}
	pref, err := PlanAdd(s.userID, s.state.DomainInput)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDomain) {
			s.state.ServerError = s.tr.Translate(MsgInvalidDomain)
		}
		s.mu.Unlock()
		return err
	}
	s.beginLocked()
	s.mu.Unlock()

	return s.run(ctx, "add", pref, MsgSaveFailed, func() {
		s.state.DomainInput = ""
	})
}

// ToggleDomain enables or disables previews for a tracked domain.
func (s *Section) ToggleDomain(ctx context.Context, domain string, enabled bool) error {
	return s.save(ctx, "toggle", PlanToggle(s.userID, domain, enabled), MsgSaveFailed)
}

// RemoveDomain stops tracking domain.
func (s *Section) RemoveDomain(ctx context.Context, domain string) error {
	return s.save(ctx, "remove", PlanRemove(s.userID, domain), MsgRemoveFailed)
}

// Submit asks the enclosing panel to collapse the section. Every change has
// already been saved by the individual actions.
func (s *Section) Submit() {
	if s.updateSection != nil {
		s.updateSection("")
	}
}

// Expand asks the enclosing panel to make this section active.
func (s *Section) Expand() {
	if s.updateSection != nil {
		s.updateSection(SectionID)
	}
}

func (s *Section) save(ctx context.Context, action string, pref preferences.Preference, fallbackID string) error {
	s.mu.Lock()
	if s.state.Saving {
		s.mu.Unlock()
		return apperrors.ErrBusy
	}
	s.beginLocked()
	s.mu.Unlock()

	return s.run(ctx, action, pref, fallbackID, nil)
}

func (s *Section) beginLocked() {
	s.state.Saving = true
	s.state.ServerError = ""
}

// run performs the save with the lock released, then settles the state.
func (s *Section) run(ctx context.Context, action string, pref preferences.Preference, fallbackID string, onSuccess func()) error {
	err := s.saver.SavePreferences(ctx, s.userID, []preferences.Preference{pref})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Saving = false
	if err != nil {
		s.state.ServerError = s.failureMessage(err, fallbackID)
		logger.WarnEvent().
			Err(err).
			Str("user_id", s.userID).
			Str("domain", pref.Name).
			Str("action", action).
			Msg("Failed to save link preview domain")
		return apperrors.SaveFailed(apperrors.ServerMessage(err), err)
	}
	if onSuccess != nil {
		onSuccess()
	}
	logger.DebugEvent().
		Str("user_id", s.userID).
		Str("domain", pref.Name).
		Str("action", action).
		Str("value", pref.Value).
		Msg("Link preview domain saved")
	return nil
}

func (s *Section) failureMessage(err error, fallbackID string) string {
	if msg := apperrors.ServerMessage(err); msg != "" {
		return msg
	}
	return s.tr.Translate(fallbackID)
}
