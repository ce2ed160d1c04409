package model

// Exam is a scheduled assessment. Date uses DateLayout; StartTime is a
// wall-clock "HH:MM" time of day.
type Exam struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Location  string `json:"location,omitempty"`
}
