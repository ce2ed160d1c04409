package model

// Priority ranks an assignment.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DateLayout is the calendar-date format used for due and exam dates.
const DateLayout = "2006-01-02"

// Assignment is a single piece of due work.
type Assignment struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Subject   string   `json:"subject"`
	DueDate   string   `json:"dueDate"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}
