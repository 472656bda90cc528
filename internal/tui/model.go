// Package tui is a terminal front end for the link preview domains section.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// snapshotMsg carries a freshly loaded preference mapping.
type snapshotMsg struct {
	mapping preferences.Mapping
	err     error
}

// savedMsg reports a finished section action.
type savedMsg struct {
	action string
	err    error
}

// panel tracks which settings section is active. The section reports
// changes through its updateSection callback.
type panel struct {
	active string
}

func (p *panel) update(section string) {
	p.active = section
}

// Model is the bubbletea model for one link preview domains section.
type Model struct {
	ctx     context.Context
	section *linkpreview.Section
	source  preferences.Source
	panel   *panel

	snapshot preferences.Mapping
	loadErr  error
	input    textinput.Model
	focus    focusArea
	cursor   int
	width    int
}

// NewModel creates a collapsed section for userID. Saves go to saver and
// the snapshot is reloaded from source after each one.
func NewModel(ctx context.Context, userID string, saver preferences.Saver, source preferences.Source, opts ...linkpreview.Option) Model {
	p := &panel{}
	section := linkpreview.NewSection(userID, saver, p.update, opts...)

	input := textinput.New()
	input.CharLimit = preferences.MaxNameLength
	input.Width = 40

	view := section.View(nil, false, true)
	input.Placeholder = view.Placeholder

	return Model{
		ctx:     ctx,
		section: section,
		source:  source,
		panel:   p,
		input:   input,
	}
}

// Run starts the program and blocks until the user quits.
func Run(m Model) error {
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

func (m Model) active() bool {
	return m.panel.active == linkpreview.SectionID
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		mapping, err := m.source.GetMyPreferences(m.ctx, m.section.UserID())
		return snapshotMsg{mapping: mapping, err: err}
	}
}

func (m Model) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{action: action, err: fn(m.ctx)}
	}
}

func (m Model) domains() []linkpreview.DomainRow {
	return linkpreview.Domains(m.snapshot)
}

// Init loads the first snapshot.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.snapshot = msg.mapping
		}
		m.clampCursor()
		return m, nil

	case savedMsg:
		if errors.Is(msg.err, apperrors.ErrBusy) {
			return m, nil
		}
		if msg.action == "add" && msg.err == nil {
			m.input.Reset()
		}
		return m, m.load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Abort) {
			return m, tea.Quit
		}
		if !m.active() {
			return m.updateCollapsed(msg)
		}
		return m.updateExpanded(msg)
	}

	return m, nil
}

func (m Model) updateCollapsed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.section.Expand()
		m.focus = focusInput
		return m, m.input.Focus()
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateExpanded(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		m.section.Submit()
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.Focus):
		return m.switchFocus()
	}

	if m.focus == focusInput {
		if key.Matches(msg, keys.Enter) {
			m.section.SetInput(m.input.Value())
			return m, m.run("add", m.section.AddDomain)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	domains := m.domains()
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(domains)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if len(domains) == 0 {
			return m, nil
		}
		row := domains[m.cursor]
		return m, m.run("toggle", func(ctx context.Context) error {
			return m.section.ToggleDomain(ctx, row.Domain, !row.Enabled)
		})
	case key.Matches(msg, keys.Remove):
		if len(domains) == 0 {
			return m, nil
		}
		row := domains[m.cursor]
		return m, m.run("remove", func(ctx context.Context) error {
			return m.section.RemoveDomain(ctx, row.Domain)
		})
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}
	m.focus = focusInput
	return m, m.input.Focus()
}

func (m *Model) clampCursor() {
	n := len(m.domains())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the section.
func (m Model) View() string {
	v := m.section.View(m.snapshot, m.active(), !m.active())
	var b strings.Builder

	if !v.Active {
		b.WriteString(titleStyle.Render(v.Title) + "  " + mutedStyle.Render(v.EditLabel) + "\n")
		b.WriteString(v.Description + "\n")
		m.writeLoadError(&b)
		b.WriteString(dividerStyle.Render(strings.Repeat("─", 40)) + "\n")
		b.WriteString(mutedStyle.Render("enter: edit • q: quit") + "\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(v.Title) + "\n\n")
	b.WriteString(labelStyle.Render(v.AddLabel) + "\n")
	b.WriteString(m.input.View() + "\n\n")

	if len(v.Domains) > 0 {
		b.WriteString(labelStyle.Render(v.ManageLabel) + "\n")
		for i, row := range v.Domains {
			box := "[ ]"
			if row.Enabled {
				box = "[x]"
			}
			line := fmt.Sprintf("%s %s", box, row.Domain)
			if m.focus == focusList && i == m.cursor {
				b.WriteString(selectedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(v.HelpText) + "\n")
	if v.ServerError != "" {
		b.WriteString(errorStyle.Render(v.ServerError) + "\n")
	}
	m.writeLoadError(&b)
	if v.Saving {
		b.WriteString(mutedStyle.Render(v.SavingLabel) + "\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", 40)) + "\n")
	if m.focus == focusInput {
		b.WriteString(mutedStyle.Render(helpLine(keys.Enter, keys.Focus, keys.Submit)) + "\n")
	} else {
		b.WriteString(mutedStyle.Render(helpLine(keys.Up, keys.Down, keys.Toggle, keys.Remove, keys.Focus, keys.Submit, keys.Quit)) + "\n")
	}
	return b.String()
}

func (m Model) writeLoadError(b *strings.Builder) {
	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Failed to load preferences: "+m.loadErr.Error()) + "\n")
	}
}
