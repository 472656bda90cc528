package linkpreview

import (
	"net/url"
	"strings"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
)

// Decision is the outcome of a preview policy check.
type Decision struct {
	Allowed bool
	// MatchedDomain is the tracked domain that decided, or "" when the
	// default applied.
	MatchedDomain string
}

// PreviewAllowed decides whether a link to rawURL gets a preview. The host
// and then each parent domain are looked up, most specific first; the first
// tracked entry decides. Untracked hosts get defaultEnabled. Links without a
// usable host are never previewed.
func PreviewAllowed(m preferences.Mapping, rawURL string, defaultEnabled bool) Decision {
	host := linkHost(rawURL)
	if host == "" {
		return Decision{}
	}

	tracked := make(map[string]bool)
	for _, row := range Domains(m) {
		tracked[row.Domain] = row.Enabled
	}

	for candidate := host; candidate != ""; candidate = parentDomain(candidate) {
		if enabled, ok := tracked[candidate]; ok {
			return Decision{Allowed: enabled, MatchedDomain: candidate}
		}
	}
	return Decision{Allowed: defaultEnabled}
}

func linkHost(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

func parentDomain(host string) string {
	i := strings.IndexByte(host, '.')
	if i < 0 {
		return ""
	}
	parent := host[i+1:]
	// Stop at the top-level label.
	if !strings.Contains(parent, ".") {
		return ""
	}
	return parent
}
