package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/maintenance-tracker/internal/application"
	"github.com/example/maintenance-tracker/internal/payroll"
	"github.com/example/maintenance-tracker/internal/persistence"
)

var (
	eventCounter   uint64
	userCounter    uint64
	sessionCounter uint64
)

// referenceTime is a Sunday, which keeps weekly aggregation fixtures easy to
// reason about.
var referenceTime = time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// CatalogFixture returns the default five-office catalog used across tests.
func CatalogFixture() []persistence.Office {
	return []persistence.Office{
		{ID: "1", Name: "Downtown Office", Address: "123 Main St, Downtown", PayRate: 150, Description: "Main downtown office building"},
		{ID: "2", Name: "Westside Branch", Address: "456 West Ave, Westside", PayRate: 125, Description: "Branch office in western district"},
		{ID: "3", Name: "Eastside Branch", Address: "789 East Blvd, Eastside", PayRate: 135, Description: "Branch office in eastern district"},
		{ID: "4", Name: "Southside Branch", Address: "101 South St, Southside", PayRate: 145, Description: "Branch office in southern district"},
		{ID: "5", Name: "Northside Branch", Address: "202 North Ave, Northside", PayRate: 140, Description: "Branch office in northern district"},
	}
}

// ----------------------------- Event fixtures -----------------------------

// EventFixture represents a deterministic maintenance event record.
type EventFixture struct {
	ID           string
	Day          time.Time
	OfficeIDs    []string
	TotalPayRate float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. Consecutive fixtures land on consecutive days.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	day := referenceTime.AddDate(0, 0, int(idx))
	fixture := EventFixture{
		ID:           fmt.Sprintf("event-%03d", idx),
		Day:          day,
		OfficeIDs:    []string{"1"},
		TotalPayRate: 150,
		CreatedAt:    day,
		UpdatedAt:    day,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the generated event ID.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) {
		f.ID = id
	}
}

// WithEventDay places the event on a specific calendar day.
func WithEventDay(day time.Time) EventOption {
	return func(f *EventFixture) {
		f.Day = day
	}
}

// WithEventOffices sets the covered offices and the matching total pay rate.
func WithEventOffices(total float64, officeIDs ...string) EventOption {
	return func(f *EventFixture) {
		f.OfficeIDs = append([]string(nil), officeIDs...)
		f.TotalPayRate = total
	}
}

// Title renders the display title for the fixture.
func (f EventFixture) Title() string {
	noun := "office"
	if len(f.OfficeIDs) != 1 {
		noun = "offices"
	}
	return fmt.Sprintf("Maintenance: %d %s - $%s", len(f.OfficeIDs), noun, payroll.FormatAmount(f.TotalPayRate))
}

// Persistence materialises the fixture as a persistence model.
func (f EventFixture) Persistence() persistence.Event {
	return persistence.Event{
		ID:           f.ID,
		Title:        f.Title(),
		Start:        f.Day,
		End:          f.Day,
		AllDay:       true,
		OfficeIDs:    append([]string(nil), f.OfficeIDs...),
		TotalPayRate: f.TotalPayRate,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Application materialises the fixture as an application model.
func (f EventFixture) Application() application.Event {
	return application.Event{
		ID:           f.ID,
		Title:        f.Title(),
		Start:        f.Day,
		End:          f.Day,
		AllDay:       true,
		OfficeIDs:    append([]string(nil), f.OfficeIDs...),
		TotalPayRate: f.TotalPayRate,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// Persistence materialises the fixture as a persistence model.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// --------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionUserID binds the session to a specific user.
func WithSessionUserID(userID string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = userID
	}
}

// WithSessionExpiresAt overrides the session expiry.
func WithSessionExpiresAt(expiresAt time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = expiresAt
	}
}

// Persistence materialises the fixture as a persistence model.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}
