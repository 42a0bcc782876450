package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jwalitptl/clinic-assistant/internal/store"
)

// entityAttr marks linked mentions in reply markup. Its presence in a
// text means the text was already annotated and must not be touched
// again.
const entityAttr = "data-entity"

// Minimum mention lengths. Shorter names match too much ordinary prose.
const (
	minNameLen  = 3
	minTitleLen = 4
)

var markupTagPattern = regexp.MustCompile(`<[^>]+>`)

// Linker rewrites reply text so that mentions of known records become
// markup the dashboard can turn into links.
type Linker struct {
	store *store.Store
}

func NewLinker(st *store.Store) *Linker {
	return &Linker{store: st}
}

// Annotate wraps the first-class entity mentions in text. Existing markup
// is protected from rewriting, and a text that already carries entity
// markup passes through unchanged, so the operation is idempotent.
//
// Scan order is fixed: patient names, patient numbers, appointment
// dates, deadline titles, then inventory names. An earlier wrap shields
// its text from later scans.
func (l *Linker) Annotate(text string) string {
	if text == "" || strings.Contains(text, entityAttr) {
		return text
	}

	var protected []string
	shield := func(s string) string {
		protected = append(protected, s)
		return fmt.Sprintf("\x00%d\x00", len(protected)-1)
	}

	text = markupTagPattern.ReplaceAllStringFunc(text, shield)

	for _, p := range l.store.Patients() {
		if len(p.Name) >= minNameLen {
			text = wrapMention(text, p.Name, "patient", p.ID.String(), shield)
		}
	}
	for _, p := range l.store.Patients() {
		text = wrapMention(text, fmt.Sprintf("#%d", p.Number), "patient", p.ID.String(), shield)
	}
	for _, a := range l.store.Appointments() {
		if !a.Date.IsZero() {
			text = wrapMention(text, a.Date.String(), "appointment", a.ID.String(), shield)
		}
	}
	for _, d := range l.store.Deadlines() {
		if len(d.Title) >= minTitleLen {
			text = wrapMention(text, d.Title, "deadline", d.ID.String(), shield)
		}
	}
	for _, item := range l.store.Inventory() {
		if len(item.Name) >= minNameLen {
			text = wrapMention(text, item.Name, "inventory", item.ID.String(), shield)
		}
	}

	// Restore in reverse so nested placeholders (a span wrapped during a
	// later scan is impossible, but markup inside markup is not) unwind
	// cleanly.
	for i := len(protected) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, fmt.Sprintf("\x00%d\x00", i), protected[i])
	}
	return text
}

// wrapMention replaces whole-word, case-insensitive occurrences of
// needle with an entity span. Each inserted span is immediately shielded
// so later scans cannot rewrite its contents.
func wrapMention(text, needle, kind, id string, shield func(string) string) string {
	if needle == "" || !strings.Contains(strings.ToLower(text), strings.ToLower(needle)) {
		return text
	}

	pattern, err := regexp.Compile(`(?i)` + boundary(needle))
	if err != nil {
		return text
	}
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		span := fmt.Sprintf(`<span class="entity-link" %s="%s:%s">%s</span>`, entityAttr, kind, id, match)
		return shield(span)
	})
}

// boundary builds a quoted pattern with word boundaries where the needle
// edges support them; "#12" has no leading word character, so a bare \b
// would never match there.
func boundary(needle string) string {
	quoted := regexp.QuoteMeta(needle)
	if isWordByte(needle[0]) {
		quoted = `\b` + quoted
	}
	if isWordByte(needle[len(needle)-1]) {
		quoted += `\b`
	}
	return quoted
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
