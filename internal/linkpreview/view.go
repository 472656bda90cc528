package linkpreview

import (
	"strings"

	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
)

// View is everything a renderer needs to draw the section.
type View struct {
	Active                 bool
	AreAllSectionsInactive bool
	SectionID              string

	Title       string
	Description string // collapsed summary

	AddLabel    string
	AddButton   string
	Placeholder string
	ManageLabel string
	RemoveLabel string
	HelpText    string
	SavingLabel string
	SaveLabel   string
	EditLabel   string

	Input       string
	Saving      bool
	ServerError string
	AddDisabled bool

	Domains []DomainRow
}

// View derives the render model from the latest preference snapshot and the
// section's local state.
func (s *Section) View(snapshot preferences.Mapping, active, areAllSectionsInactive bool) View {
	st := s.State()
	domains := Domains(snapshot)

	return View{
		Active:                 active,
		AreAllSectionsInactive: areAllSectionsInactive,
		SectionID:              SectionID,

		Title:       s.tr.Translate(MsgTitle),
		Description: Describe(s.tr, len(domains)),

		AddLabel:    s.tr.Translate(MsgAddDomain),
		AddButton:   s.tr.Translate(MsgAdd),
		Placeholder: s.tr.Translate(MsgPlaceholder),
		ManageLabel: s.tr.Translate(MsgManageDomains),
		RemoveLabel: s.tr.Translate(MsgRemove),
		HelpText:    s.tr.Translate(MsgHelp),
		SavingLabel: s.tr.Translate(MsgSaving),
		SaveLabel:   s.tr.Translate(MsgSave),
		EditLabel:   s.tr.Translate(MsgEdit),

		Input:       st.DomainInput,
		Saving:      st.Saving,
		ServerError: st.ServerError,
		AddDisabled: st.Saving || strings.TrimSpace(st.DomainInput) == "",

		Domains: domains,
	}
}
