// Package analytics publishes view events (subject viewed, facets applied,
// search settled, batch loaded) to an optional sink. Publishing is
// fail-open: it never blocks or fails a request.
package analytics

import (
	"time"

	"github.com/mssola/useragent"
)

// EventType labels one view event.
type EventType string

const (
	EventSubjectViewed EventType = "subject_viewed"
	EventFacetsApplied EventType = "facets_applied"
	EventSearchSettled EventType = "search_settled"
	EventBatchLoaded   EventType = "batch_loaded"
	EventDeepLink      EventType = "deep_link_opened"
)

// Event is one analytics record.
type Event struct {
	Type        EventType `json:"type"`
	SubjectID   string    `json:"subject_id,omitempty"`
	SessionID   string    `json:"session_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Year        int       `json:"year,omitempty"`
	SearchText  string    `json:"search_text,omitempty"`
	Anchor      string    `json:"anchor,omitempty"`
	DeviceClass string    `json:"device_class,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeviceClass buckets a User-Agent header into "bot", "mobile", or
// "desktop". Unknown agents count as desktop.
func DeviceClass(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	switch {
	case ua.Bot():
		return "bot"
	case ua.Mobile():
		return "mobile"
	default:
		return "desktop"
	}
}
