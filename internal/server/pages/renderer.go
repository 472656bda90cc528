package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sectionTemplate = "link_preview_domains.html"
	errorTemplate   = "error.html"
)

var (
	// Templates are compiled once on first use
	templates *template.Template
	parseErr  error
	initOnce  sync.Once
)

// SectionPage is the data for the settings section fragment.
type SectionPage struct {
	View      linkpreview.View
	BasePath  string // where the section's forms post to
	CSRFToken string
}

// ErrorPageData holds dynamic data for the error page.
type ErrorPageData struct {
	Status     int
	StatusText string
	Message    string
}

func initTemplates() {
	initOnce.Do(func() {
		templates, parseErr = template.ParseFS(templatesFS, "templates/*.html")
		if parseErr != nil {
			logger.ErrorEvent().Err(parseErr).Msg("Failed to parse page templates")
			return
		}
		logger.DebugEvent().Msg("Page templates loaded successfully")
	})
}

// WriteSection renders the section as an HTTP response.
func WriteSection(w http.ResponseWriter, status int, page SectionPage) {
	write(w, status, sectionTemplate, page)
}

// WriteError renders an error page with an optional message.
func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, errorTemplate, ErrorPageData{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

func execute(w io.Writer, name string, data interface{}) error {
	initTemplates()
	if parseErr != nil {
		return fmt.Errorf("templates unavailable: %w", parseErr)
	}
	return templates.ExecuteTemplate(w, name, data)
}

func write(w http.ResponseWriter, status int, name string, data interface{}) {
	// Render to a buffer first to avoid partial writes on error
	var buf bytes.Buffer
	if err := execute(&buf, name, data); err != nil {
		logger.ErrorEvent().
			Err(err).
			Str("template", name).
			Msg("Failed to execute page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.WarnEvent().
			Err(err).
			Msg("Failed to write page to response")
	}
}
