package model

import (
	"strings"
	"time"
)

// MaxImageBytes caps the decoded size of a note's embedded image.
const MaxImageBytes = 2_000_000

// Note is a free-text note with an optional embedded image stored as a
// base64 data URL. Date is set at creation and re-stamped on every update.
type Note struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Subject string    `json:"subject,omitempty"`
	Image   string    `json:"image,omitempty"`
	Date    time.Time `json:"date"`
}

// ImageSize reports the decoded byte size of a data-URL image string.
func ImageSize(image string) int {
	if image == "" {
		return 0
	}
	payload := image
	if i := strings.Index(image, ","); i >= 0 {
		payload = image[i+1:]
	}
	n := len(payload) / 4 * 3
	n -= strings.Count(payload[max(0, len(payload)-2):], "=")
	return n
}
