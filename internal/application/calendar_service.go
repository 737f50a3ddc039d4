package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/maintenance-tracker/internal/payroll"
)

// EventRepository captures the persistence interactions for maintenance events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	GetEventForDay(ctx context.Context, date time.Time) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
}

// CalendarService manages the maintenance calendar: one all-day event per
// calendar day, each covering the offices assigned so far.
type CalendarService struct {
	events      EventRepository
	catalog     OfficeCatalog
	idGenerator func() string
	now         func() time.Time
	loc         *time.Location
	logger      *slog.Logger
	summaries   *summaryCache

	selectionMu sync.Mutex
	selection   Selection
}

// NewCalendarService constructs a CalendarService with the provided dependencies.
func NewCalendarService(events EventRepository, catalog OfficeCatalog, idGenerator func() string, now func() time.Time, loc *time.Location) *CalendarService {
	return NewCalendarServiceWithLogger(events, catalog, idGenerator, now, loc, nil)
}

// NewCalendarServiceWithLogger constructs a CalendarService with a specified logger.
func NewCalendarServiceWithLogger(events EventRepository, catalog OfficeCatalog, idGenerator func() string, now func() time.Time, loc *time.Location, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &CalendarService{
		events:      events,
		catalog:     catalog,
		idGenerator: idGenerator,
		now:         now,
		loc:         loc,
		logger:      defaultLogger(logger),
		summaries:   newSummaryCache(30*time.Second, now),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// AssignOffice records a maintenance visit to the office on the given day.
// Missing or unknown inputs are ignored and reported via the second return
// value. Assigning an office already on that day's event leaves the event
// unchanged.
func (s *CalendarService) AssignOffice(ctx context.Context, date time.Time, officeID string) (event Event, assigned bool, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.events == nil {
		err = fmt.Errorf("event repository not configured")
		return
	}
	if s.catalog == nil {
		err = fmt.Errorf("office catalog not configured")
		return
	}

	trimmedID := strings.TrimSpace(officeID)
	logger := s.loggerWith(ctx, "AssignOffice",
		"office_id", trimmedID,
		"date_provided", !date.IsZero(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "office assignment failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if !assigned {
			logger.DebugContext(ctx, "office assignment skipped")
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "office assigned")
	}()

	if date.IsZero() || trimmedID == "" {
		return
	}

	if _, err = s.catalog.GetOffice(ctx, trimmedID); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = nil
		}
		return
	}

	day := payroll.StartOfDay(date, s.loc)

	existing, lookupErr := s.events.GetEventForDay(ctx, day)
	switch {
	case lookupErr == nil:
		event, assigned, err = s.appendOffice(ctx, existing, trimmedID)
	case errors.Is(lookupErr, ErrNotFound):
		event, assigned, err = s.createEvent(ctx, day, trimmedID)
		if errors.Is(err, ErrAlreadyExists) {
			// Lost a race with a concurrent assignment for the same day.
			existing, lookupErr = s.events.GetEventForDay(ctx, day)
			if lookupErr != nil {
				err = lookupErr
				return
			}
			event, assigned, err = s.appendOffice(ctx, existing, trimmedID)
		}
	default:
		err = lookupErr
		return
	}

	if err == nil && assigned {
		s.summaries.Invalidate()
		s.clearSelection()
	}
	return
}

func (s *CalendarService) createEvent(ctx context.Context, day time.Time, officeID string) (Event, bool, error) {
	total, err := s.totalPayRate(ctx, []string{officeID})
	if err != nil {
		return Event{}, false, err
	}

	now := s.now()
	event := Event{
		ID:           s.idGenerator(),
		Title:        buildEventTitle(1, total),
		Start:        day,
		End:          day,
		AllDay:       true,
		OfficeIDs:    []string{officeID},
		TotalPayRate: total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		return Event{}, false, err
	}
	return created, true, nil
}

func (s *CalendarService) appendOffice(ctx context.Context, event Event, officeID string) (Event, bool, error) {
	for _, id := range event.OfficeIDs {
		if id == officeID {
			return event, true, nil
		}
	}

	officeIDs := append(append([]string(nil), event.OfficeIDs...), officeID)
	total, err := s.totalPayRate(ctx, officeIDs)
	if err != nil {
		return Event{}, false, err
	}

	event.OfficeIDs = officeIDs
	event.TotalPayRate = total
	event.Title = buildEventTitle(len(officeIDs), total)
	event.UpdatedAt = s.now()

	updated, err := s.events.UpdateEvent(ctx, event)
	if err != nil {
		return Event{}, false, err
	}
	return updated, true, nil
}

// FindEventForDate returns the event scheduled on the same calendar day as
// the given time, if any.
func (s *CalendarService) FindEventForDate(ctx context.Context, date time.Time) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("CalendarService is nil")
	}
	if s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}
	if date.IsZero() {
		return Event{}, ErrNotFound
	}

	event, err := s.events.GetEventForDay(ctx, payroll.StartOfDay(date, s.loc))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.loggerWith(ctx, "FindEventForDate").ErrorContext(ctx, "failed to look up event", "error", err, "error_kind", ErrorKind(err))
		}
		return Event{}, err
	}
	return event, nil
}

// GetEvent looks up an event by its identifier.
func (s *CalendarService) GetEvent(ctx context.Context, id string) (Event, error) {
	if s == nil {
		return Event{}, fmt.Errorf("CalendarService is nil")
	}
	if s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return Event{}, ErrNotFound
	}
	return s.events.GetEvent(ctx, trimmed)
}

// ListEvents returns every scheduled event ordered by day.
func (s *CalendarService) ListEvents(ctx context.Context) ([]Event, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}
	return s.events.ListEvents(ctx)
}

// AssignedOffices returns the offices covered by an event in catalog order.
func (s *CalendarService) AssignedOffices(ctx context.Context, eventID string) ([]Office, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if s.catalog == nil {
		return nil, fmt.Errorf("office catalog not configured")
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.ListOffices(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Office, len(catalog))
	for _, office := range catalog {
		byID[office.ID] = office
	}

	ordered := payroll.AssignedOffices(payrollOffices(catalog), event.OfficeIDs)
	offices := make([]Office, 0, len(ordered))
	for _, office := range ordered {
		offices = append(offices, byID[office.ID])
	}
	return offices, nil
}

// WeeklyTotals aggregates all events into Sunday-starting weekly summaries.
func (s *CalendarService) WeeklyTotals(ctx context.Context) ([]WeeklySummary, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}

	if cached, ok := s.summaries.Get(); ok {
		return cached, nil
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		s.loggerWith(ctx, "WeeklyTotals").ErrorContext(ctx, "failed to list events", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	byID := make(map[string]Event, len(events))
	pEvents := make([]payroll.Event, 0, len(events))
	for _, event := range events {
		byID[event.ID] = event
		pEvents = append(pEvents, payroll.Event{
			ID:           event.ID,
			Start:        event.Start,
			TotalPayRate: event.TotalPayRate,
		})
	}

	buckets := payroll.WeeklyTotals(pEvents, s.loc)
	summaries := make([]WeeklySummary, 0, len(buckets))
	for _, bucket := range buckets {
		summary := WeeklySummary{
			WeekStart: bucket.WeekStart,
			TotalPay:  bucket.TotalPay,
			Events:    make([]Event, 0, len(bucket.Events)),
		}
		for _, pEvent := range bucket.Events {
			summary.Events = append(summary.Events, byID[pEvent.ID])
		}
		summaries = append(summaries, summary)
	}

	s.summaries.Store(summaries)
	return summaries, nil
}

// SetSelectedOffice stores the office to use for the next assignment. An
// empty id clears the selection.
func (s *CalendarService) SetSelectedOffice(officeID string) Selection {
	if s == nil {
		return Selection{}
	}
	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()

	s.selection.OfficeID = strings.TrimSpace(officeID)
	return s.selectionLocked()
}

// SetSelectedDate stores the calendar day to use for the next assignment. A
// zero time clears the selection.
func (s *CalendarService) SetSelectedDate(date time.Time) Selection {
	if s == nil {
		return Selection{}
	}
	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()

	if date.IsZero() {
		s.selection.Date = nil
	} else {
		day := payroll.StartOfDay(date, s.loc)
		s.selection.Date = &day
	}
	return s.selectionLocked()
}

// ToggleSummary flips the weekly summary visibility flag.
func (s *CalendarService) ToggleSummary() Selection {
	if s == nil {
		return Selection{}
	}
	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()

	s.selection.SummaryOpen = !s.selection.SummaryOpen
	return s.selectionLocked()
}

// Selection returns the current pending inputs.
func (s *CalendarService) Selection() Selection {
	if s == nil {
		return Selection{}
	}
	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()
	return s.selectionLocked()
}

func (s *CalendarService) clearSelection() {
	s.selectionMu.Lock()
	s.selection.OfficeID = ""
	s.selection.Date = nil
	s.selectionMu.Unlock()
}

func (s *CalendarService) selectionLocked() Selection {
	selection := s.selection
	if s.selection.Date != nil {
		date := *s.selection.Date
		selection.Date = &date
	}
	return selection
}

func (s *CalendarService) totalPayRate(ctx context.Context, officeIDs []string) (float64, error) {
	catalog, err := s.catalog.ListOffices(ctx)
	if err != nil {
		return 0, err
	}
	return payroll.TotalPayRate(payrollOffices(catalog), officeIDs), nil
}

func payrollOffices(offices []Office) []payroll.Office {
	out := make([]payroll.Office, 0, len(offices))
	for _, office := range offices {
		out = append(out, payroll.Office{ID: office.ID, PayRate: office.PayRate})
	}
	return out
}

func buildEventTitle(count int, total float64) string {
	noun := "office"
	if count != 1 {
		noun = "offices"
	}
	return fmt.Sprintf("Maintenance: %d %s - $%s", count, noun, payroll.FormatAmount(total))
}
