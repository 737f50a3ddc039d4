package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/maintenance-tracker/internal/payroll"
	"github.com/example/maintenance-tracker/internal/persistence"
)

const dayFormat = "2006-01-02"

// EventRepository implements persistence.EventRepository using SQLite. The
// events table carries a UNIQUE day column so the one-event-per-day
// invariant is enforced by the schema as well as by callers.
type EventRepository struct {
	pool *ConnectionPool
	loc  *time.Location
}

// NewEventRepository creates a SQLite-backed event repository whose
// calendar-day bucketing uses loc.
func NewEventRepository(pool *ConnectionPool, loc *time.Location) *EventRepository {
	if loc == nil {
		loc = time.Local
	}
	return &EventRepository{pool: pool, loc: loc}
}

// CreateEvent stores a new event together with its office assignment rows.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	day := payroll.StartOfDay(event.Start, r.loc).Format(dayFormat)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO events (id, title, day, start_at, end_at, all_day, total_pay_rate, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID,
			event.Title,
			day,
			event.Start.UTC().Format(time.RFC3339),
			event.End.UTC().Format(time.RFC3339),
			boolToInt(event.AllDay),
			event.TotalPayRate,
			event.CreatedAt.UTC().Format(time.RFC3339),
			event.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapSQLError(err)
		}
		return insertOfficeRows(tx, event.ID, event.OfficeIDs)
	})
}

// UpdateEvent replaces an event's derived fields and office assignments.
// The day column is never rewritten; an event stays on its calendar day.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE events SET title = ?, total_pay_rate = ?, updated_at = ? WHERE id = ?`,
			event.Title,
			event.TotalPayRate,
			event.UpdatedAt.UTC().Format(time.RFC3339),
			event.ID,
		)
		if err != nil {
			return mapSQLError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := tx.Exec(`DELETE FROM event_offices WHERE event_id = ?`, event.ID); err != nil {
			return mapSQLError(err)
		}
		return insertOfficeRows(tx, event.ID, event.OfficeIDs)
	})
}

// GetEvent retrieves an event by ID, including its assigned offices in
// assignment order.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, title, start_at, end_at, all_day, total_pay_rate, created_at, updated_at
		 FROM events WHERE id = ?`, id)
	return r.scanEvent(ctx, row)
}

// GetEventForDay retrieves the event for the calendar day containing date.
func (r *EventRepository) GetEventForDay(ctx context.Context, date time.Time) (persistence.Event, error) {
	day := payroll.StartOfDay(date, r.loc).Format(dayFormat)
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, title, start_at, end_at, all_day, total_pay_rate, created_at, updated_at
		 FROM events WHERE day = ?`, day)
	return r.scanEvent(ctx, row)
}

// ListEvents returns all events ordered by day ascending.
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, title, start_at, end_at, all_day, total_pay_rate, created_at, updated_at
		 FROM events ORDER BY day`)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := scanEventColumns(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}

	for i := range events {
		officeIDs, err := r.loadOfficeIDs(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].OfficeIDs = officeIDs
	}
	return events, nil
}

func (r *EventRepository) scanEvent(ctx context.Context, row *sql.Row) (persistence.Event, error) {
	event, err := scanEventColumns(row.Scan)
	if err != nil {
		return persistence.Event{}, err
	}

	officeIDs, err := r.loadOfficeIDs(ctx, event.ID)
	if err != nil {
		return persistence.Event{}, err
	}
	event.OfficeIDs = officeIDs
	return event, nil
}

func (r *EventRepository) loadOfficeIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT office_id FROM event_offices WHERE event_id = ? ORDER BY position`, eventID)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer rows.Close()

	var officeIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapSQLError(err)
		}
		officeIDs = append(officeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}
	return officeIDs, nil
}

func scanEventColumns(scan func(dest ...any) error) (persistence.Event, error) {
	var event persistence.Event
	var allDay int
	var startStr, endStr, createdStr, updatedStr string

	if err := scan(
		&event.ID,
		&event.Title,
		&startStr,
		&endStr,
		&allDay,
		&event.TotalPayRate,
		&createdStr,
		&updatedStr,
	); err != nil {
		return persistence.Event{}, mapSQLError(err)
	}

	var err error
	if event.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse start_at: %w", err)
	}
	if event.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse end_at: %w", err)
	}
	if event.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if event.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Event{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	event.AllDay = allDay != 0
	return event, nil
}

func insertOfficeRows(tx *sql.Tx, eventID string, officeIDs []string) error {
	for position, officeID := range officeIDs {
		_, err := tx.Exec(
			`INSERT INTO event_offices (event_id, office_id, position) VALUES (?, ?, ?)`,
			eventID, officeID, position,
		)
		if err != nil {
			return mapSQLError(err)
		}
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
