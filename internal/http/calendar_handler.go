package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/maintenance-tracker/internal/application"
	"github.com/example/maintenance-tracker/internal/payroll"
)

type calendarService interface {
	AssignOffice(ctx context.Context, date time.Time, officeID string) (application.Event, bool, error)
	FindEventForDate(ctx context.Context, date time.Time) (application.Event, error)
	ListEvents(ctx context.Context) ([]application.Event, error)
	AssignedOffices(ctx context.Context, eventID string) ([]application.Office, error)
	WeeklyTotals(ctx context.Context) ([]application.WeeklySummary, error)
	SetSelectedOffice(officeID string) application.Selection
	SetSelectedDate(date time.Time) application.Selection
	ToggleSummary() application.Selection
	Selection() application.Selection
}

type CalendarHandler struct {
	service   calendarService
	loc       *time.Location
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, loc *time.Location, logger *slog.Logger) *CalendarHandler {
	if loc == nil {
		loc = time.Local
	}
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, loc: loc, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// ListEvents serves the full calendar, or a single day's event when the
// `date` query parameter is present.
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		date, err := h.parseDate(raw)
		if err != nil {
			h.log(r.Context(), "ListEvents", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid date filter", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}

		logger := h.log(r.Context(), "ListEvents", "date", raw)
		event, err := h.service.FindEventForDate(r.Context(), date)
		if err != nil {
			logger.ErrorContext(r.Context(), "event lookup failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
		return
	}

	logger := h.log(r.Context(), "ListEvents")
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "event list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(events)).InfoContext(r.Context(), "events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

// Assign records a maintenance visit. Fields omitted from the request body
// fall back to the stored selection. Inputs that cannot be resolved are
// ignored and answered with 204 No Content.
func (h *CalendarHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Assign", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode assignment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	selection := h.service.Selection()

	officeID := strings.TrimSpace(req.OfficeID)
	if officeID == "" {
		officeID = selection.OfficeID
	}

	var date time.Time
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := h.parseDate(raw)
		if err != nil {
			h.log(r.Context(), "Assign", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid assignment date", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		date = parsed
	} else if selection.Date != nil {
		date = *selection.Date
	}

	logger := h.log(r.Context(), "Assign", "office_id", officeID)

	event, assigned, err := h.service.AssignOffice(r.Context(), date, officeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !assigned {
		logger.InfoContext(r.Context(), "assignment skipped")
		h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
		return
	}

	logger.With("event_id", event.ID).InfoContext(r.Context(), "office assigned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// EventOffices lists the offices covered by an event in catalog order.
func (h *CalendarHandler) EventOffices(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.log(r.Context(), "EventOffices", "error_kind", "bad_request").ErrorContext(r.Context(), "missing event id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	logger := h.log(r.Context(), "EventOffices", "event_id", eventID)
	offices, err := h.service.AssignedOffices(r.Context(), eventID)
	if err != nil {
		logger.ErrorContext(r.Context(), "assigned office lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOfficesResponse{Offices: toOfficeDTOs(offices)})
}

// WeeklySummary serves the Sunday-starting weekly aggregation.
func (h *CalendarHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "WeeklySummary")
	summaries, err := h.service.WeeklyTotals(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "weekly summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(summaries)).InfoContext(r.Context(), "weekly summary computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, weeklySummaryResponse{Weeks: toWeeklySummaryDTOs(summaries)})
}

// GetSelection returns the pending calendar inputs.
func (h *CalendarHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, selectionResponse{Selection: toSelectionDTO(h.service.Selection())})
}

// PutSelection updates the pending calendar inputs. Omitted fields keep
// their current value; empty values clear them.
func (h *CalendarHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "PutSelection", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode selection request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	selection := h.service.Selection()
	if req.OfficeID != nil {
		selection = h.service.SetSelectedOffice(*req.OfficeID)
	}
	if req.Date != nil {
		if raw := strings.TrimSpace(*req.Date); raw == "" {
			selection = h.service.SetSelectedDate(time.Time{})
		} else {
			date, err := h.parseDate(raw)
			if err != nil {
				h.log(r.Context(), "PutSelection", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid selection date", "error", err)
				h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
				return
			}
			selection = h.service.SetSelectedDate(date)
		}
	}

	h.log(r.Context(), "PutSelection").InfoContext(r.Context(), "selection updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, selectionResponse{Selection: toSelectionDTO(selection)})
}

// ToggleSummary flips the weekly summary visibility flag.
func (h *CalendarHandler) ToggleSummary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	selection := h.service.ToggleSummary()
	h.log(r.Context(), "ToggleSummary", "summary_open", selection.SummaryOpen).InfoContext(r.Context(), "summary visibility toggled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, selectionResponse{Selection: toSelectionDTO(selection)})
}

const dayFormat = "2006-01-02"

func (h *CalendarHandler) parseDate(value string) (time.Time, error) {
	if date, err := time.ParseInLocation(dayFormat, value, h.loc); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}

type assignRequest struct {
	Date     string `json:"date"`
	OfficeID string `json:"office_id"`
}

type selectionRequest struct {
	OfficeID *string `json:"office_id"`
	Date     *string `json:"date"`
}

type eventResponse struct {
	Event eventDTO `json:"event"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}

type eventDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	AllDay       bool     `json:"all_day"`
	OfficeIDs    []string `json:"office_ids"`
	TotalPayRate float64  `json:"total_pay_rate"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toEventDTO(event application.Event) eventDTO {
	return eventDTO{
		ID:           event.ID,
		Title:        event.Title,
		Start:        event.Start.Format(time.RFC3339),
		End:          event.End.Format(time.RFC3339),
		AllDay:       event.AllDay,
		OfficeIDs:    append([]string(nil), event.OfficeIDs...),
		TotalPayRate: event.TotalPayRate,
		CreatedAt:    event.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    event.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEventDTOs(events []application.Event) []eventDTO {
	if len(events) == 0 {
		return nil
	}
	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, toEventDTO(event))
	}
	return out
}

type weeklySummaryResponse struct {
	Weeks []weeklySummaryDTO `json:"weeks"`
}

type weeklySummaryDTO struct {
	WeekStart    string     `json:"week_start"`
	TotalPay     float64    `json:"total_pay"`
	TotalDisplay string     `json:"total_display"`
	Events       []eventDTO `json:"events"`
}

func toWeeklySummaryDTOs(summaries []application.WeeklySummary) []weeklySummaryDTO {
	if len(summaries) == 0 {
		return nil
	}
	out := make([]weeklySummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, weeklySummaryDTO{
			WeekStart:    summary.WeekStart.Format(dayFormat),
			TotalPay:     summary.TotalPay,
			TotalDisplay: "$" + payroll.FormatAmount(summary.TotalPay),
			Events:       toEventDTOs(summary.Events),
		})
	}
	return out
}

type selectionResponse struct {
	Selection selectionDTO `json:"selection"`
}

type selectionDTO struct {
	OfficeID    string  `json:"office_id,omitempty"`
	Date        *string `json:"date,omitempty"`
	SummaryOpen bool    `json:"summary_open"`
}

func toSelectionDTO(selection application.Selection) selectionDTO {
	dto := selectionDTO{
		OfficeID:    selection.OfficeID,
		SummaryOpen: selection.SummaryOpen,
	}
	if selection.Date != nil {
		formatted := selection.Date.Format(dayFormat)
		dto.Date = &formatted
	}
	return dto
}
