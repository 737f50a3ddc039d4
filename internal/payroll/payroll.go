package payroll

import (
	"sort"
	"strconv"
	"time"
)

// Office carries the attributes of a catalog entry needed for pay math.
type Office struct {
	ID      string
	PayRate float64
}

// Event represents a scheduled maintenance day in the payroll domain.
type Event struct {
	ID           string
	Start        time.Time
	TotalPayRate float64
}

// WeeklySummary aggregates the events falling inside one Sunday-start week.
type WeeklySummary struct {
	WeekStart time.Time
	TotalPay  float64
	Events    []Event
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the Sunday beginning the week containing t.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	start := StartOfDay(t, loc)
	// In Go, Sunday == 0, so the weekday is already the offset from Sunday.
	return start.AddDate(0, 0, -int(start.Weekday()))
}

// SameDay reports whether a and b fall on the same calendar day in loc,
// ignoring their time-of-day components.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// TotalPayRate sums the daily pay rate of every office id that resolves in
// the catalog. Unknown ids contribute zero rather than failing, so a stale
// assignment never poisons a total.
func TotalPayRate(offices []Office, officeIDs []string) float64 {
	rates := make(map[string]float64, len(offices))
	for _, office := range offices {
		rates[office.ID] = office.PayRate
	}

	total := 0.0
	for _, id := range officeIDs {
		total += rates[id]
	}
	return total
}

// AssignedOffices filters the catalog down to the offices referenced by
// officeIDs, preserving catalog order so listings render in a stable
// canonical order regardless of assignment sequence.
func AssignedOffices(offices []Office, officeIDs []string) []Office {
	if len(officeIDs) == 0 {
		return nil
	}

	assigned := make(map[string]struct{}, len(officeIDs))
	for _, id := range officeIDs {
		assigned[id] = struct{}{}
	}

	result := make([]Office, 0, len(officeIDs))
	for _, office := range offices {
		if _, ok := assigned[office.ID]; ok {
			result = append(result, office)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// WeeklyTotals buckets events by the Sunday-start week containing their
// start date and sums pay per bucket. Buckets are keyed by the week-start
// date value, so weeks spanning month or year boundaries group correctly,
// and the result is sorted ascending by week start.
func WeeklyTotals(events []Event, loc *time.Location) []WeeklySummary {
	if len(events) == 0 {
		return nil
	}

	buckets := make(map[time.Time]*WeeklySummary)
	for _, event := range events {
		weekStart := StartOfWeek(event.Start, loc)
		summary, ok := buckets[weekStart]
		if !ok {
			summary = &WeeklySummary{WeekStart: weekStart}
			buckets[weekStart] = summary
		}
		summary.TotalPay += event.TotalPayRate
		summary.Events = append(summary.Events, event)
	}

	summaries := make([]WeeklySummary, 0, len(buckets))
	for _, summary := range buckets {
		sort.SliceStable(summary.Events, func(i, j int) bool {
			if summary.Events[i].Start.Equal(summary.Events[j].Start) {
				return summary.Events[i].ID < summary.Events[j].ID
			}
			return summary.Events[i].Start.Before(summary.Events[j].Start)
		})
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].WeekStart.Before(summaries[j].WeekStart)
	})

	return summaries
}

// FormatAmount renders a dollar amount the way event titles display it:
// minimal digits, no trailing zeros (150 -> "150", 137.5 -> "137.5").
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
