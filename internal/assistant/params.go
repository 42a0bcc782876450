package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
)

// Params carries the loosely-typed parameters of an action proposal.
// Assistant output names the same logical field many ways, so every
// accessor takes an ordered list of accepted keys and resolves the first
// one present. The accepted-key lists live here, not scattered through
// handler logic.
type Params map[string]interface{}

// Accepted key sets, ordered by precedence.
var (
	patientNameKeys = []string{"patient_name", "patientName", "name", "patient"}
	titleKeys       = []string{"title", "name", "deadline"}
	itemNameKeys    = []string{"item_name", "itemName", "name", "item"}
	dateKeys        = []string{"date", "appointment_date", "appointmentDate", "due_date", "dueDate"}
	timeKeys        = []string{"time", "appointment_time", "appointmentTime"}
	idKeys          = []string{"id", "patient_id", "patientId", "appointment_id", "appointmentId", "deadline_id", "deadlineId", "item_id", "itemId"}
	queryKeys       = []string{"query", "search", "term", "q", "keyword"}
	textKeys        = []string{"answer", "response", "message", "text", "note"}
)

// String resolves the first present, non-empty string value among keys.
// Numeric values are formatted, since assistants frequently send numbers
// where strings are expected.
func (p Params) String(keys ...string) (string, bool) {
	for _, key := range keys {
		v, present := p[key]
		if !present {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s, true
			}
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64), true
		case int:
			return strconv.Itoa(val), true
		}
	}
	return "", false
}

// StringOr resolves like String but falls back to def.
func (p Params) StringOr(def string, keys ...string) string {
	if s, found := p.String(keys...); found {
		return s
	}
	return def
}

// StringPtr returns a pointer for the first present key, or nil. Used to
// build partial-update requests where absence means "leave unchanged".
func (p Params) StringPtr(keys ...string) *string {
	if s, found := p.String(keys...); found {
		return &s
	}
	return nil
}

// Int resolves the first present integer value among keys.
func (p Params) Int(keys ...string) (int, bool) {
	for _, key := range keys {
		v, present := p[key]
		if !present {
			continue
		}
		switch val := v.(type) {
		case float64:
			return int(val), true
		case int:
			return val, true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// IntPtr returns a pointer for the first present integer key, or nil.
func (p Params) IntPtr(keys ...string) *int {
	if n, found := p.Int(keys...); found {
		return &n
	}
	return nil
}

// UUID resolves the first present key that parses as a UUID.
func (p Params) UUID(keys ...string) (uuid.UUID, bool) {
	s, found := p.String(keys...)
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Date resolves and normalizes the first present date value among keys.
func (p Params) Date(keys ...string) (model.Date, bool, error) {
	s, found := p.String(keys...)
	if !found {
		return model.Date{}, false, nil
	}
	date, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, true, fmt.Errorf("invalid date %q", s)
	}
	return date, true, nil
}

// HasAny reports whether any of keys resolves to a usable value.
func (p Params) HasAny(keys ...string) bool {
	_, found := p.String(keys...)
	if found {
		return true
	}
	_, found = p.Int(keys...)
	return found
}
