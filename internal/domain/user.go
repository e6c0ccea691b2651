package domain

import "time"

// AdminEmail is the reserved identity granted the admin dashboard.
const AdminEmail = "admin@promail.ai"

// User represents the signed-in account for one profile.
type User struct {
	Email         string `json:"email"`
	Points        int    `json:"points"`
	LastResetDate string `json:"lastResetDate"`
	IsAdmin       bool   `json:"isAdmin"`
}

// DayString formats an instant at calendar-day granularity in local time.
// Two instants on the same local day compare equal; the daily reset check
// relies on exactly this equality.
func DayString(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
