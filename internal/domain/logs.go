package domain

import "time"

// GeoPoint is a best-effort coordinate annotation on a usage entry.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UsageEntry records one successful generation. Entries are append-only and
// never rewritten after their first durable write; Location is attached only
// before that write, and its absence is normal.
type UsageEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Email     string    `json:"email"`
	Language  Language  `json:"language"`
	Tone      Tone      `json:"tone"`
	Category  Category  `json:"category"`
	Location  *GeoPoint `json:"location,omitempty"`
}

// VisitEntry records one application session start.
type VisitEntry struct {
	Timestamp time.Time `json:"timestamp"`
}
