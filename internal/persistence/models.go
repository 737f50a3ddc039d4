package persistence

import "time"

// Office represents an entry in the static office catalog. Offices are
// seeded once at startup and never mutated afterwards.
type Office struct {
	ID          string
	Name        string
	Address     string
	PayRate     float64
	Description string
}

// Event represents a maintenance visit stored for a single calendar day.
// Start and End always fall on the same day and AllDay is always true.
type Event struct {
	ID           string
	Title        string
	Start        time.Time
	End          time.Time
	AllDay       bool
	OfficeIDs    []string
	TotalPayRate float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User represents an account able to open sessions against the tracker.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
