package persistence

import (
	"context"
	"time"
)

// OfficeRepository exposes read access to the seeded office catalog.
// SeedOffices is invoked exactly once during startup; there are no mutation
// operations afterwards.
type OfficeRepository interface {
	SeedOffices(ctx context.Context, offices []Office) error
	GetOffice(ctx context.Context, id string) (Office, error)
	ListOffices(ctx context.Context) ([]Office, error)
}

// EventRepository stores maintenance events keyed by calendar day.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	UpdateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	// GetEventForDay matches by calendar day only; the time-of-day carried
	// by date is ignored.
	GetEventForDay(ctx context.Context, date time.Time) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
}

// UserRepository exposes the account operations needed by signup and login.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
