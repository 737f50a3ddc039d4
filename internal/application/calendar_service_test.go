package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type catalogStub struct {
	offices []Office
	listErr error
}

func (c *catalogStub) ListOffices(ctx context.Context) ([]Office, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]Office(nil), c.offices...), nil
}

func (c *catalogStub) GetOffice(ctx context.Context, id string) (Office, error) {
	for _, office := range c.offices {
		if office.ID == id {
			return office, nil
		}
	}
	return Office{}, ErrNotFound
}

type eventRepoStub struct {
	events  map[string]Event
	updates int
}

func newEventRepoStub() *eventRepoStub {
	return &eventRepoStub{events: make(map[string]Event)}
}

func (r *eventRepoStub) CreateEvent(ctx context.Context, event Event) (Event, error) {
	for _, existing := range r.events {
		if existing.Start.Equal(event.Start) {
			return Event{}, ErrAlreadyExists
		}
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *eventRepoStub) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if _, ok := r.events[event.ID]; !ok {
		return Event{}, ErrNotFound
	}
	r.updates++
	r.events[event.ID] = event
	return event, nil
}

func (r *eventRepoStub) GetEvent(ctx context.Context, id string) (Event, error) {
	event, ok := r.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return event, nil
}

func (r *eventRepoStub) GetEventForDay(ctx context.Context, date time.Time) (Event, error) {
	for _, event := range r.events {
		if event.Start.Equal(date) {
			return event, nil
		}
	}
	return Event{}, ErrNotFound
}

func (r *eventRepoStub) ListEvents(ctx context.Context) ([]Event, error) {
	out := make([]Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event)
	}
	return out, nil
}

func testCatalog() *catalogStub {
	return &catalogStub{offices: []Office{
		{ID: "1", Name: "Downtown Office", PayRate: 150},
		{ID: "2", Name: "Westside Branch", PayRate: 125},
		{ID: "3", Name: "Eastside Branch", PayRate: 135},
		{ID: "4", Name: "Southside Branch", PayRate: 145},
		{ID: "5", Name: "Northside Branch", PayRate: 140},
	}}
}

func newTestCalendarService(repo *eventRepoStub) *CalendarService {
	counter := 0
	idGenerator := func() string {
		counter++
		return fmt.Sprintf("event-%d", counter)
	}
	now := func() time.Time { return time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC) }
	return NewCalendarService(repo, testCatalog(), idGenerator, now, time.UTC)
}

func TestAssignOffice_CreatesEventForNewDay(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)

	date := time.Date(2026, time.January, 5, 14, 30, 0, 0, time.UTC)
	event, assigned, err := service.AssignOffice(context.Background(), date, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assigned {
		t.Fatal("expected assignment to take effect")
	}
	if event.Title != "Maintenance: 1 office - $150" {
		t.Fatalf("unexpected title %q", event.Title)
	}
	if !event.AllDay {
		t.Fatal("expected an all-day event")
	}
	if !event.Start.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start at midnight, got %v", event.Start)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}
}

func TestAssignOffice_AppendsToExistingDay(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	first, _, err := service.AssignOffice(ctx, date, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := time.Date(2026, time.January, 5, 17, 45, 0, 0, time.UTC)
	second, assigned, err := service.AssignOffice(ctx, later, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assigned {
		t.Fatal("expected assignment to take effect")
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same event, got %s and %s", first.ID, second.ID)
	}
	if second.Title != "Maintenance: 2 offices - $275" {
		t.Fatalf("unexpected title %q", second.Title)
	}
	if len(second.OfficeIDs) != 2 || second.OfficeIDs[0] != "1" || second.OfficeIDs[1] != "2" {
		t.Fatalf("unexpected office ids %v", second.OfficeIDs)
	}
	if second.TotalPayRate != 275 {
		t.Fatalf("unexpected total %v", second.TotalPayRate)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}
}

func TestAssignOffice_DuplicateAssignmentIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	first, _, err := service.AssignOffice(ctx, date, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, assigned, err := service.AssignOffice(ctx, date, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assigned {
		t.Fatal("expected duplicate assignment to resolve to the existing event")
	}
	if again.Title != first.Title || again.TotalPayRate != first.TotalPayRate {
		t.Fatalf("expected event to be unchanged, got %+v", again)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no repository update, got %d", repo.updates)
	}
}

func TestAssignOffice_SilentNoOps(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()
	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

	cases := map[string]struct {
		date     time.Time
		officeID string
	}{
		"zero date":      {time.Time{}, "1"},
		"empty office":   {date, ""},
		"blank office":   {date, "   "},
		"unknown office": {date, "999"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, assigned, err := service.AssignOffice(ctx, tc.date, tc.officeID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if assigned {
				t.Fatal("expected assignment to be skipped")
			}
		})
	}

	if len(repo.events) != 0 {
		t.Fatalf("expected no stored events, got %d", len(repo.events))
	}
}

func TestAssignOffice_SeparateDaysProduceSeparateEvents(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	monday := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)

	first, _, err := service.AssignOffice(ctx, monday, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := service.AssignOffice(ctx, tuesday, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected separate events for separate days")
	}
	if len(repo.events) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(repo.events))
	}
}

func TestFindEventForDate(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	created, _, err := service.AssignOffice(ctx, date, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := service.FindEventForDate(ctx, time.Date(2026, time.January, 5, 23, 59, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected event %s, got %s", created.ID, found.ID)
	}

	if _, err := service.FindEventForDate(ctx, time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.FindEventForDate(ctx, time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for zero date, got %v", err)
	}
}

func TestAssignedOffices_CatalogOrder(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	if _, _, err := service.AssignOffice(ctx, date, "3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	event, _, err := service.AssignOffice(ctx, date, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	offices, err := service.AssignedOffices(ctx, event.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(offices) != 2 || offices[0].ID != "1" || offices[1].ID != "3" {
		t.Fatalf("expected catalog order [1 3], got %+v", offices)
	}
	if offices[0].Name != "Downtown Office" {
		t.Fatalf("expected full office details, got %+v", offices[0])
	}
}

func TestWeeklyTotals_GroupsSundayStartWeeks(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	// Week of Sunday 2026-01-04: Monday 150+125, Wednesday 135.
	monday := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, time.January, 7, 9, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

	for _, step := range []struct {
		date     time.Time
		officeID string
	}{
		{monday, "1"},
		{monday, "2"},
		{wednesday, "3"},
		{nextMonday, "4"},
	} {
		if _, _, err := service.AssignOffice(ctx, step.date, step.officeID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	summaries, err := service.WeeklyTotals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 weekly summaries, got %d", len(summaries))
	}

	first := summaries[0]
	if !first.WeekStart.Equal(time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected week start on Sunday Jan 4, got %v", first.WeekStart)
	}
	if first.TotalPay != 410 {
		t.Fatalf("expected weekly total 410, got %v", first.TotalPay)
	}
	if len(first.Events) != 2 || !first.Events[0].Start.Before(first.Events[1].Start) {
		t.Fatalf("expected 2 chronologically ordered events, got %+v", first.Events)
	}

	second := summaries[1]
	if !second.WeekStart.Equal(time.Date(2026, time.January, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected week start on Sunday Jan 11, got %v", second.WeekStart)
	}
	if second.TotalPay != 145 {
		t.Fatalf("expected weekly total 145, got %v", second.TotalPay)
	}
}

func TestWeeklyTotals_CacheInvalidatedOnAssignment(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	monday := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	if _, _, err := service.AssignOffice(ctx, monday, "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, err := service.WeeklyTotals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before[0].TotalPay != 150 {
		t.Fatalf("expected total 150, got %v", before[0].TotalPay)
	}

	if _, _, err := service.AssignOffice(ctx, monday, "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := service.WeeklyTotals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after[0].TotalPay != 275 {
		t.Fatalf("expected total 275 after new assignment, got %v", after[0].TotalPay)
	}
}

func TestSelection_LifecycleAndReset(t *testing.T) {
	t.Parallel()

	repo := newEventRepoStub()
	service := newTestCalendarService(repo)
	ctx := context.Background()

	selection := service.SetSelectedOffice("2")
	if selection.OfficeID != "2" {
		t.Fatalf("expected office 2 selected, got %q", selection.OfficeID)
	}

	date := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	selection = service.SetSelectedDate(date)
	if selection.Date == nil || !selection.Date.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected selected date normalized to midnight, got %v", selection.Date)
	}

	selection = service.ToggleSummary()
	if !selection.SummaryOpen {
		t.Fatal("expected summary to be open after toggle")
	}
	selection = service.ToggleSummary()
	if selection.SummaryOpen {
		t.Fatal("expected summary to be closed after second toggle")
	}

	if _, _, err := service.AssignOffice(ctx, date, "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	selection = service.Selection()
	if selection.OfficeID != "" || selection.Date != nil {
		t.Fatalf("expected selection cleared after assignment, got %+v", selection)
	}
}

func TestSetSelectedDate_ZeroClearsSelection(t *testing.T) {
	t.Parallel()

	service := newTestCalendarService(newEventRepoStub())

	service.SetSelectedDate(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	selection := service.SetSelectedDate(time.Time{})
	if selection.Date != nil {
		t.Fatalf("expected cleared date, got %v", selection.Date)
	}
}
