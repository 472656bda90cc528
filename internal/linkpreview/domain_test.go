package linkpreview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
)

// TestValidDomain tests the domain pattern
func TestValidDomain(t *testing.T) {
	tests := []struct {
		domain string
		valid  bool
	}{
		{"example.com", true},
		{"sub.example.co.uk", true},
		{"my-site.io", true},
		{"under_score.net", true},
		{"abc", true},
		{"localhost", true},
		{"1.2.3.4", true},
		{"a", false},
		{"ab", false},
		{"", false},
		{"-bad-", false},
		{"bad.", false},
		{".bad", false},
		{"_bad.com", false},
		{"bad com", false},
		{"http://example.com", false},
		{"example.com/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidDomain(tt.domain))
		})
	}
}

// TestNormalizeDomain tests trimming and lower-casing
func TestNormalizeDomain(t *testing.T) {
	d, ok := NormalizeDomain("  WWW.Example.COM \n")
	assert.True(t, ok)
	assert.Equal(t, "www.example.com", d)

	_, ok = NormalizeDomain(" \t ")
	assert.False(t, ok)
}

// TestTrackedDomain tests that existing names keep their case
func TestTrackedDomain(t *testing.T) {
	d, ok := TrackedDomain("  Example.COM \n")
	assert.True(t, ok)
	assert.Equal(t, "Example.COM", d)

	_, ok = TrackedDomain(" \t ")
	assert.False(t, ok)
}

// TestDomains tests projection of the mapping into rows
func TestDomains(t *testing.T) {
	m := preferences.NewMapping([]preferences.Preference{
		{UserID: "user1", Category: Category, Name: "test.com", Value: "true"},
		{UserID: "user1", Category: Category, Name: "example.com", Value: "false"},
		{UserID: "user1", Category: Category, Name: "gone.com", Value: ""},
		{UserID: "user1", Category: "display_settings", Name: "theme", Value: "true"},
	})

	rows := Domains(m)
	assert.Equal(t, []DomainRow{
		{Domain: "example.com", Enabled: false},
		{Domain: "test.com", Enabled: true},
	}, rows)

	assert.Empty(t, Domains(preferences.Mapping{}))
	assert.Empty(t, Domains(nil))
}
