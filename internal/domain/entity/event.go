package entity

import "time"

// RegionSelectedEvent is raised when a user clicks a rendered region
type RegionSelectedEvent struct {
	EventID    string    `json:"eventId"`
	RequestID  string    `json:"requestId,omitempty"` // For distributed tracing
	RegionID   string    `json:"regionId"`
	Title      string    `json:"title"`
	SelectedAt time.Time `json:"selectedAt"`
}
