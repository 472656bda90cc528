// Package linkpreview implements the "Link Preview Domains" settings section:
// the per-user list of domains whose link previews are enabled or disabled.
package linkpreview

import (
	"regexp"
	"strings"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
)

const (
	// Category is the preference category holding tracked domains.
	Category = "link_preview_domain_settings"

	// SectionID identifies this section to the enclosing settings panel.
	SectionID = "linkPreviewDomains"
)

// Preference values.
const (
	ValueEnabled  = "true"
	ValueDisabled = "false"
	ValueRemoved  = ""
)

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-._]+[a-zA-Z0-9]$`)

// NormalizeDomain trims and lower-cases raw input. ok is false for blank input.
func NormalizeDomain(raw string) (domain string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return strings.ToLower(trimmed), true
}

// TrackedDomain trims raw, which names an existing row, and keeps its case.
// ok is false for blank input.
func TrackedDomain(raw string) (domain string, ok bool) {
	domain = strings.TrimSpace(raw)
	return domain, domain != ""
}

// ValidDomain reports whether domain is acceptable as a tracked domain.
func ValidDomain(domain string) bool {
	return domainPattern.MatchString(domain)
}

// DomainRow is one tracked domain in the derived view.
type DomainRow struct {
	Domain  string
	Enabled bool
}

// Domains projects the link preview category of m into rows, in mapping
// enumeration order. Removed entries are skipped.
func Domains(m preferences.Mapping) []DomainRow {
	var rows []DomainRow
	for _, p := range m.Category(Category) {
		if p.Value == ValueRemoved {
			continue
		}
		rows = append(rows, DomainRow{Domain: p.Name, Enabled: p.Value == ValueEnabled})
	}
	return rows
}

func boolValue(enabled bool) string {
	if enabled {
		return ValueEnabled
	}
	return ValueDisabled
}

func newPreference(userID, domain, value string) preferences.Preference {
	return preferences.Preference{
		UserID:   userID,
		Category: Category,
		Name:     domain,
		Value:    value,
	}
}
