package application

import "time"

// Office is a catalog entry describing a maintainable location and its pay rate.
type Office struct {
	ID          string
	Name        string
	Address     string
	PayRate     float64
	Description string
}

// Event is a single-day maintenance visit covering one or more offices.
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

// WeeklySummary aggregates the events of one Sunday-starting week.
type WeeklySummary struct {
	WeekStart time.Time
	TotalPay  float64
	Events    []Event
}

// Selection holds the pending calendar inputs for the next assignment.
type Selection struct {
	OfficeID    string
	Date        *time.Time
	SummaryOpen bool
}

// User is an account that can sign in and manage the calendar.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserCredentials bundles a user with its stored password hash for verification.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an issued login token with its validity window.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Principal identifies the authenticated caller attached to a request.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
}

// SignupParams carries the input for account creation.
type SignupParams struct {
	Email       string
	DisplayName string
	Password    string
}

// AuthenticateParams carries the input for a login attempt.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is the outcome of a successful login.
type AuthenticateResult struct {
	User    User
	Session Session
}
