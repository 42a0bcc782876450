package model

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Deadline carries two synonymous date fields for historical reasons.
// Date and DueDate must be kept equal on every write; the deadline
// service enforces this.
type Deadline struct {
	Base
	Title       string   `db:"title" json:"title"`
	Date        Date     `db:"date" json:"date"`
	DueDate     Date     `db:"due_date" json:"due_date"`
	Priority    Priority `db:"priority" json:"priority"`
	Description string   `db:"description" json:"description,omitempty"`
}

type CreateDeadlineRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Description string `json:"description"`
}

type UpdateDeadlineRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Priority    *string `json:"priority"`
	Description *string `json:"description"`
}
