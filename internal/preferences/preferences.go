// Package preferences is the per-user category/name keyed settings store.
package preferences

import (
	"context"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pandeptwidyaop/linkprefs/internal/db/models"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
)

// Field limits for stored preferences.
const (
	MaxUserIDLength   = 64
	MaxCategoryLength = 32
	MaxNameLength     = 255
	MaxValueLength    = 2000
)

// Preference is the wire form of a stored preference.
type Preference struct {
	UserID   string `json:"user_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// Key returns the composite "category--name" key used in a Mapping.
func (p Preference) Key() string {
	return models.PreferenceKey(p.Category, p.Name)
}

// Mapping holds one user's preferences keyed by composite key.
type Mapping map[string]Preference

// NewMapping indexes prefs by key. Later entries win on key collision.
func NewMapping(prefs []Preference) Mapping {
	m := make(Mapping, len(prefs))
	for _, p := range prefs {
		m[p.Key()] = p
	}
	return m
}

// Keys returns the mapping keys in enumeration order (ascending).
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Category returns the entries of one category in enumeration order.
func (m Mapping) Category(category string) []Preference {
	var out []Preference
	for _, k := range m.Keys() {
		if p := m[k]; p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Saver persists a batch of preferences for a user. An empty Value removes
// the preference.
type Saver interface {
	SavePreferences(ctx context.Context, userID string, prefs []Preference) error
}

// Source reads a user's preferences.
type Source interface {
	GetMyPreferences(ctx context.Context, userID string) (Mapping, error)
}

// Validate checks field limits and ownership of p.
func Validate(userID string, p Preference) error {
	if p.UserID != userID {
		return apperrors.NewAppError("preference_owner",
			fmt.Sprintf("preference %q belongs to another user", p.Key()), apperrors.ErrPreferenceOwner)
	}

	checks := []struct {
		field    string
		value    string
		min, max int
	}{
		{"user_id", p.UserID, 1, MaxUserIDLength},
		{"category", p.Category, 1, MaxCategoryLength},
		{"name", p.Name, 1, MaxNameLength},
		{"value", p.Value, 0, MaxValueLength},
	}
	for _, c := range checks {
		n := utf8.RuneCountInString(c.value)
		if n < c.min || n > c.max {
			return apperrors.NewAppError("invalid_preference",
				fmt.Sprintf("%s must be between %d and %d characters", c.field, c.min, c.max),
				apperrors.ErrInvalidPreference)
		}
	}
	return nil
}
