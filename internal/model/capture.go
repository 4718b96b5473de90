package model

import "time"

// Capture represents one stored image and the location submitted with it.
type Capture struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Latitude     string    `json:"latitude"`
	Longitude    string    `json:"longitude"`
	Timestamp    time.Time `json:"timestamp"`
	Size         int64     `json:"size"`
}
