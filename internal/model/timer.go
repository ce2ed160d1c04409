package model

import "time"

// SegmentType distinguishes focus time from rest in the timer history.
type SegmentType string

const (
	SegmentStudy SegmentType = "study"
	SegmentBreak SegmentType = "break"
)

// TimerHistoryEntry records one completed timer segment. The list is
// append-only; entries are removable by id.
type TimerHistoryEntry struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Minutes   int         `json:"duration"`
	Timestamp time.Time   `json:"timestamp"`
	Type      SegmentType `json:"type"`
}
