package assistant

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// EnvelopeKind classifies what the assistant backend sent back.
type EnvelopeKind int

const (
	// EnvelopeToolCall proposes an action with parameters.
	EnvelopeToolCall EnvelopeKind = iota
	// EnvelopeText carries prose to relay to the user.
	EnvelopeText
	// EnvelopeFailure reports that the backend could not answer.
	EnvelopeFailure
)

// Envelope is the normalized form of one backend reply.
type Envelope struct {
	Kind   EnvelopeKind
	Tool   string
	Params Params
	Text   string
	Reason string
}

// rawEnvelope covers every field the backend is known to emit.
type rawEnvelope struct {
	Tool       string `json:"tool"`
	Action     string `json:"action"`
	Parameters Params `json:"parameters"`
	Params     Params `json:"params"`
	Response   string `json:"response"`
	Message    string `json:"message"`
	Success    *bool  `json:"success"`
	Error      string `json:"error"`
}

// ParseEnvelope normalizes a backend reply. The wire shape is loose: the
// payload may be an object, a bare JSON string, or plain prose, and the
// prose fields sometimes contain a second JSON document with the actual
// tool call. Exactly one level of that nesting is unwrapped.
func ParseEnvelope(raw []byte) Envelope {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Envelope{Kind: EnvelopeText}
	}

	// A bare JSON string is treated like prose that may hide a tool call.
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return envelopeFromText(plain, true)
	}

	var outer rawEnvelope
	if err := json.Unmarshal(raw, &outer); err != nil {
		// Not JSON at all; relay the raw prose.
		return envelopeFromText(string(raw), false)
	}
	return envelopeFromRaw(outer, true)
}

func envelopeFromRaw(r rawEnvelope, unwrap bool) Envelope {
	if tool := firstNonEmpty(r.Tool, r.Action); tool != "" {
		params := r.Parameters
		if params == nil {
			params = r.Params
		}
		if params == nil {
			params = Params{}
		}
		// The no-op tool sometimes carries its relay text beside the call
		// instead of inside the parameters; fold it in so the handler sees
		// it.
		if strings.EqualFold(tool, answerQuestionAction) {
			if _, found := params.String(textKeys...); !found {
				if text := firstNonEmpty(r.Response, r.Message); text != "" {
					params["response"] = text
				}
			}
		}
		return Envelope{Kind: EnvelopeToolCall, Tool: tool, Params: params}
	}

	if text := firstNonEmpty(r.Response, r.Message); text != "" {
		return envelopeFromText(text, unwrap)
	}

	if r.Error != "" || (r.Success != nil && !*r.Success) {
		reason := r.Error
		if reason == "" {
			reason = "The assistant could not process that request."
		}
		return Envelope{Kind: EnvelopeFailure, Reason: reason}
	}

	return Envelope{Kind: EnvelopeText}
}

// envelopeFromText relays prose, first checking whether the prose is
// itself a JSON envelope holding a tool call.
func envelopeFromText(text string, unwrap bool) Envelope {
	text = strings.TrimSpace(text)
	if unwrap && len(text) > 0 && text[0] == '{' {
		var inner rawEnvelope
		if err := json.Unmarshal([]byte(text), &inner); err == nil {
			if env := envelopeFromRaw(inner, false); env.Kind == EnvelopeToolCall {
				return env
			}
		}
	}
	return Envelope{Kind: EnvelopeText, Text: text}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
