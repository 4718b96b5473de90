package dto

import (
	"time"

	"github.com/goccy/go-json"
)

// CaptureEvent is pushed to live viewers after each successful upload.
type CaptureEvent struct {
	File      string    `json:"file"`
	Lat       string    `json:"lat"`
	Lon       string    `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
}

// MarshalJSON formats the timestamp the same way the location log does.
func (e CaptureEvent) MarshalJSON() ([]byte, error) {
	type Alias CaptureEvent
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		Alias
	}{
		Timestamp: e.Timestamp.Format("2006-01-02 15:04:05.000000"),
		Alias:     (Alias)(e),
	})
}
