package model

import "time"

// ChatMode selects which assistant backend handles a conversation turn.
type ChatMode string

const (
	// ChatModeTool routes messages through the action-dispatching backend.
	ChatModeTool ChatMode = "tool"
	// ChatModeRetrieval routes messages through the document-retrieval backend.
	ChatModeRetrieval ChatMode = "retrieval"
)

// ValidChatMode reports whether m is a known chat mode.
func ValidChatMode(m ChatMode) bool {
	return m == ChatModeTool || m == ChatModeRetrieval
}

// ChatMessage is one turn of assistant conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source is a citation returned by the retrieval backend: either a plain
// label or a label with a link.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the reply for one conversational turn. Reply text has
// already been through the entity mention linker.
type ChatResponse struct {
	Reply   string      `json:"reply"`
	Sources []Source    `json:"sources,omitempty"`
	Action  string      `json:"action,omitempty"`
	OK      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
}

// Setting is a persisted key/value preference, such as the chat mode.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
