package pages

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
)

type nopSaver struct{}

func (nopSaver) SavePreferences(context.Context, string, []preferences.Preference) error {
	return nil
}

func twoDomains() preferences.Mapping {
	return preferences.Mapping{
		"link_preview_domain_settings--example.com": {
			UserID: "user1", Category: linkpreview.Category, Name: "example.com", Value: "false",
		},
		"link_preview_domain_settings--test.com": {
			UserID: "user1", Category: linkpreview.Category, Name: "test.com", Value: "true",
		},
	}
}

func render(t *testing.T, section *linkpreview.Section, snapshot preferences.Mapping, active bool) string {
	var buf bytes.Buffer
	err := execute(&buf, sectionTemplate, SectionPage{
		View:     section.View(snapshot, active, false),
		BasePath: "/settings/link_preview_domains",
	})
	require.NoError(t, err)
	return buf.String()
}

// rowFor returns the markup of the row for domain
func rowFor(t *testing.T, html, domain string) string {
	start := strings.Index(html, `data-domain="`+domain+`"`)
	require.GreaterOrEqual(t, start, 0, "row for %s", domain)
	end := strings.Index(html[start:], `class="btn btn-sm`)
	require.Greater(t, end, 0)
	return html[start : start+end]
}

// TestRenderSection_ExpandedWithDomains tests the expanded DOM contract
func TestRenderSection_ExpandedWithDomains(t *testing.T) {
	section := linkpreview.NewSection("user1", nopSaver{}, nil)
	html := render(t, section, twoDomains(), true)

	assert.Equal(t, 1, strings.Count(html, `class="domains-list"`))
	assert.Equal(t, 2, strings.Count(html, `class="form-group" data-domain=`))
	assert.Equal(t, 2, strings.Count(html, `type="checkbox"`))
	assert.Equal(t, 2, strings.Count(html, ">Remove</button>"))

	assert.NotContains(t, rowFor(t, html, "example.com"), " checked")
	assert.Contains(t, rowFor(t, html, "test.com"), " checked")

	assert.Less(t, strings.Index(html, `data-domain="example.com"`), strings.Index(html, `data-domain="test.com"`))
	assert.Contains(t, html, "Manage Domains (uncheck to disable previews)")
	assert.Contains(t, html, `placeholder="e.g., example.com"`)
	assert.NotContains(t, html, "section-min__describe")
}

// TestRenderSection_ExpandedEmpty tests that no list renders without domains
func TestRenderSection_ExpandedEmpty(t *testing.T) {
	section := linkpreview.NewSection("user1", nopSaver{}, nil)
	html := render(t, section, preferences.Mapping{}, true)

	assert.NotContains(t, html, "domains-list")
	assert.Contains(t, html, "Add Domain")
	assert.Regexp(t, `class="btn btn-primary" disabled>Add<`, html)
}

// TestRenderSection_Collapsed tests the one-line description
func TestRenderSection_Collapsed(t *testing.T) {
	section := linkpreview.NewSection("user1", nopSaver{}, nil)

	empty := render(t, section, preferences.Mapping{}, false)
	assert.Contains(t, empty, `<div class="section-min__describe">No domains configured</div>`)
	assert.NotContains(t, empty, "domains-list")

	two := render(t, section, twoDomains(), false)
	assert.Contains(t, two, "2 domains configured")
	assert.Contains(t, two, `href="/settings/link_preview_domains?active=true"`)
}

// TestRenderSection_ErrorAndInput tests error text and retained input
func TestRenderSection_ErrorAndInput(t *testing.T) {
	section := linkpreview.NewSection("user1", nopSaver{}, nil)
	section.SetInput("<bad>")
	_ = section.AddDomain(context.Background())

	html := render(t, section, nil, true)
	assert.Contains(t, html, `id="serverError">Please enter a valid domain name.</label>`)
	assert.Contains(t, html, `value="&lt;bad&gt;"`, "input is escaped")
	assert.NotContains(t, html, "<bad>")
}

// TestWriteSection tests the HTTP response wrapper
func TestWriteSection(t *testing.T) {
	section := linkpreview.NewSection("user1", nopSaver{}, nil)
	rec := httptest.NewRecorder()

	WriteSection(rec, http.StatusUnprocessableEntity, SectionPage{View: section.View(nil, true, false)})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Link Preview Domains")
}

// TestWriteError tests the error page
func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "no such section")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "404")
	assert.Contains(t, body, "Not Found")
	assert.Contains(t, body, "no such section")
}
