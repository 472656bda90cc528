package linkpreview

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message IDs.
const (
	MsgTitle         = "user.settings.display.linkPreviewDomains.title"
	MsgAddDomain     = "user.settings.display.linkPreviewDomains.addDomain"
	MsgPlaceholder   = "user.settings.display.linkPreviewDomains.placeholder"
	MsgAdd           = "user.settings.display.linkPreviewDomains.add"
	MsgRemove        = "user.settings.display.linkPreviewDomains.remove"
	MsgManageDomains = "user.settings.display.linkPreviewDomains.manageDomains"
	MsgHelp          = "user.settings.display.linkPreviewDomains.help"
	MsgDescribe      = "user.settings.display.linkPreviewDomains.describe"
	MsgDescribeEmpty = "user.settings.display.linkPreviewDomains.describeEmpty"
	MsgInvalidDomain = "user.settings.display.linkPreviewDomains.invalidDomain"
	MsgSaveFailed    = "user.settings.display.linkPreviewDomains.saveFailed"
	MsgRemoveFailed  = "user.settings.display.linkPreviewDomains.removeFailed"
	MsgSaving        = "user.settings.display.linkPreviewDomains.saving"
	MsgSave          = "setting_item_max.save"
	MsgEdit          = "setting_item_min.edit"
)

var messageTable = map[language.Tag]map[string]string{
	language.English: {
		MsgTitle:         "Link Preview Domains",
		MsgAddDomain:     "Add Domain",
		MsgPlaceholder:   "e.g., example.com",
		MsgAdd:           "Add",
		MsgRemove:        "Remove",
		MsgManageDomains: "Manage Domains (uncheck to disable previews)",
		MsgHelp:          "Control which domains show link previews. Unchecked domains will not show previews, even if link previews are enabled.",
		MsgDescribeEmpty: "No domains configured",
		MsgInvalidDomain: "Please enter a valid domain name.",
		MsgSaveFailed:    "Failed to save preference",
		MsgRemoveFailed:  "Failed to remove preference",
		MsgSaving:        "Saving...",
		MsgSave:          "Save",
		MsgEdit:          "Edit",
	},
	language.Indonesian: {
		MsgTitle:         "Domain Pratinjau Tautan",
		MsgAddDomain:     "Tambah Domain",
		MsgPlaceholder:   "mis., example.com",
		MsgAdd:           "Tambah",
		MsgRemove:        "Hapus",
		MsgManageDomains: "Kelola Domain (hapus centang untuk mematikan pratinjau)",
		MsgHelp:          "Atur domain mana yang menampilkan pratinjau tautan. Domain tanpa centang tidak menampilkan pratinjau, meskipun pratinjau tautan aktif.",
		MsgDescribeEmpty: "Belum ada domain",
		MsgInvalidDomain: "Masukkan nama domain yang valid.",
		MsgSaveFailed:    "Gagal menyimpan preferensi",
		MsgRemoveFailed:  "Gagal menghapus preferensi",
		MsgSaving:        "Menyimpan...",
		MsgSave:          "Simpan",
		MsgEdit:          "Ubah",
	},
}

// describeCases are the plural cases of MsgDescribe; %d is the count.
var describeCases = map[language.Tag][]interface{}{
	language.English: {
		"one", "%d domain configured",
		"other", "%d domains configured",
	},
	language.Indonesian: {
		"other", "%d domain dikonfigurasi",
	},
}

var messages = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, table := range messageTable {
		for id, text := range table {
			if err := b.SetString(tag, id, text); err != nil {
				panic(fmt.Sprintf("linkpreview: message %s (%s): %v", id, tag, err))
			}
		}
		if err := b.Set(tag, MsgDescribe, plural.Selectf(1, "%d", describeCases[tag]...)); err != nil {
			panic(fmt.Sprintf("linkpreview: message %s (%s): %v", MsgDescribe, tag, err))
		}
	}
	return b
}

// Translator renders a message by ID; args fill the message's verbs.
type Translator interface {
	Translate(id string, args ...interface{}) string
}

// CatalogTranslator renders messages from the built-in catalog.
type CatalogTranslator struct {
	printer *message.Printer
}

// NewTranslator returns a translator for lang, a BCP 47 tag such as "en" or
// "id". Unknown or malformed tags get English.
func NewTranslator(lang string) *CatalogTranslator {
	tag := language.English
	if requested, err := language.Parse(lang); err == nil {
		_, i, confidence := messages.Matcher().Match(requested)
		if confidence != language.No {
			tag = messages.Languages()[i]
		}
	}
	return &CatalogTranslator{
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Translate implements Translator.
func (t *CatalogTranslator) Translate(id string, args ...interface{}) string {
	return t.printer.Sprintf(id, args...)
}

var english = NewTranslator("en")

// DefaultTranslator returns the English translator.
func DefaultTranslator() Translator {
	return english
}

// Describe returns the collapsed-view summary for count tracked domains.
func Describe(tr Translator, count int) string {
	if count == 0 {
		return tr.Translate(MsgDescribeEmpty)
	}
	return tr.Translate(MsgDescribe, count)
}
