package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/maintenance-tracker/internal/payroll"
	"github.com/example/maintenance-tracker/internal/persistence"
)

// Storage provides an in-memory persistence layer implementation. It is the
// default backend: tracker state is session-scoped and discarded on exit.
type Storage struct {
	mu       sync.RWMutex
	loc      *time.Location
	offices  map[string]persistence.Office
	order    []string
	events   map[string]persistence.Event
	days     map[time.Time]string
	users    map[string]persistence.User
	sessions map[string]persistence.Session
}

// NewStorage returns an empty Storage whose calendar-day comparisons use loc.
func NewStorage(loc *time.Location) *Storage {
	if loc == nil {
		loc = time.Local
	}
	return &Storage{
		loc:      loc,
		offices:  make(map[string]persistence.Office),
		events:   make(map[string]persistence.Event),
		days:     make(map[time.Time]string),
		users:    make(map[string]persistence.User),
		sessions: make(map[string]persistence.Session),
	}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// Migrate initialises the storage. No-op for the in-memory implementation.
func (s *Storage) Migrate(context.Context) error {
	return nil
}

// --- OfficeRepository implementation ---

// SeedOffices loads the office catalog. It may only run against an empty
// catalog; the directory is read-only for the rest of the process lifetime.
func (s *Storage) SeedOffices(ctx context.Context, offices []persistence.Office) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.offices) > 0 {
		return persistence.ErrConstraintViolation
	}

	for _, office := range offices {
		if _, ok := s.offices[office.ID]; ok {
			return fmt.Errorf("seed office %s: %w", office.ID, persistence.ErrDuplicate)
		}
		s.offices[office.ID] = office
		s.order = append(s.order, office.ID)
	}
	return nil
}

// GetOffice retrieves an office by ID.
func (s *Storage) GetOffice(ctx context.Context, id string) (persistence.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	office, ok := s.offices[id]
	if !ok {
		return persistence.Office{}, persistence.ErrNotFound
	}
	return office, nil
}

// ListOffices returns the catalog in seed order.
func (s *Storage) ListOffices(ctx context.Context) ([]persistence.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offices := make([]persistence.Office, 0, len(s.order))
	for _, id := range s.order {
		offices = append(offices, s.offices[id])
	}
	return offices, nil
}

// --- EventRepository implementation ---

// CreateEvent stores a new maintenance event. At most one event may exist
// per calendar day.
func (s *Storage) CreateEvent(ctx context.Context, event persistence.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("event %s: %w", event.ID, persistence.ErrDuplicate)
	}

	day := payroll.StartOfDay(event.Start, s.loc)
	if _, ok := s.days[day]; ok {
		return fmt.Errorf("day %s: %w", day.Format("2006-01-02"), persistence.ErrDuplicate)
	}

	s.events[event.ID] = cloneEvent(event)
	s.days[day] = event.ID
	return nil
}

// UpdateEvent replaces an existing event. The event's day never changes;
// only its office assignments and derived fields do.
func (s *Storage) UpdateEvent(ctx context.Context, event persistence.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[event.ID]
	if !ok {
		return persistence.ErrNotFound
	}

	if !payroll.SameDay(current.Start, event.Start, s.loc) {
		return persistence.ErrConstraintViolation
	}

	s.events[event.ID] = cloneEvent(event)
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Storage) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return cloneEvent(event), nil
}

// GetEventForDay retrieves the event scheduled for the calendar day
// containing date, ignoring its time-of-day.
func (s *Storage) GetEventForDay(ctx context.Context, date time.Time) (persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.days[payroll.StartOfDay(date, s.loc)]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return cloneEvent(s.events[id]), nil
}

// ListEvents returns all events ordered by start date ascending.
func (s *Storage) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]persistence.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, cloneEvent(event))
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})

	return events, nil
}

// --- UserRepository implementation ---

// CreateUser stores a new account. Emails are unique case-insensitively.
func (s *Storage) CreateUser(ctx context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, persistence.ErrDuplicate)
	}

	lower := strings.ToLower(user.Email)
	for _, existing := range s.users {
		if strings.ToLower(existing.Email) == lower {
			return fmt.Errorf("email %s: %w", user.Email, persistence.ErrDuplicate)
		}
	}

	s.users[user.ID] = user
	return nil
}

// GetUser retrieves a user by ID.
func (s *Storage) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address, case-insensitively.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(email)
	for _, user := range s.users {
		if strings.ToLower(user.Email) == lower {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

// --- SessionRepository implementation ---

// CreateSession stores a new session keyed by its token.
func (s *Storage) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" || strings.TrimSpace(session.Token) == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.Token]; ok {
		return persistence.Session{}, persistence.ErrDuplicate
	}
	if _, ok := s.users[session.UserID]; !ok {
		return persistence.Session{}, persistence.ErrForeignKeyViolation
	}

	s.sessions[session.Token] = cloneSession(session)
	return cloneSession(session), nil
}

// GetSession retrieves a session by its token value.
func (s *Storage) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(token)]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return cloneSession(session), nil
}

// RevokeSession marks a session as revoked based on its token value.
func (s *Storage) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(token)
	session, ok := s.sessions[trimmed]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}

	revoked := revokedAt.UTC()
	session.RevokedAt = &revoked
	session.UpdatedAt = revoked
	s.sessions[trimmed] = session

	return cloneSession(session), nil
}

// DeleteExpiredSessions removes sessions that expired on or before the
// provided reference time.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func cloneEvent(event persistence.Event) persistence.Event {
	clone := event
	clone.OfficeIDs = append([]string(nil), event.OfficeIDs...)
	return clone
}

func cloneSession(session persistence.Session) persistence.Session {
	clone := session
	if session.RevokedAt != nil {
		revoked := *session.RevokedAt
		clone.RevokedAt = &revoked
	}
	return clone
}
