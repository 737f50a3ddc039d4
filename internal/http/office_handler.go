package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/maintenance-tracker/internal/application"
)

type directoryService interface {
	ListOffices(ctx context.Context) ([]application.Office, error)
	FindOffice(ctx context.Context, id string) (application.Office, error)
}

type OfficeHandler struct {
	service   directoryService
	responder responder
	logger    *slog.Logger
}

func NewOfficeHandler(service directoryService, logger *slog.Logger) *OfficeHandler {
	base := defaultLogger(logger)
	return &OfficeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OfficeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OfficeHandler", operation, attrs...)
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	offices, err := h.service.ListOffices(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "office list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(offices)).InfoContext(r.Context(), "offices listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOfficesResponse{Offices: toOfficeDTOs(offices)})
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	officeID, ok := OfficeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(officeID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing office id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfficeID)
		return
	}

	logger := h.log(r.Context(), "Get", "office_id", officeID)
	office, err := h.service.FindOffice(r.Context(), officeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "office lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, officeResponse{Office: toOfficeDTO(office)})
}

type officeResponse struct {
	Office officeDTO `json:"office"`
}

type listOfficesResponse struct {
	Offices []officeDTO `json:"offices"`
}

type officeDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PayRate     float64 `json:"pay_rate"`
	Description string  `json:"description,omitempty"`
}

func toOfficeDTO(office application.Office) officeDTO {
	return officeDTO{
		ID:          office.ID,
		Name:        office.Name,
		Address:     office.Address,
		PayRate:     office.PayRate,
		Description: office.Description,
	}
}

func toOfficeDTOs(offices []application.Office) []officeDTO {
	if len(offices) == 0 {
		return nil
	}
	out := make([]officeDTO, 0, len(offices))
	for _, office := range offices {
		out = append(out, toOfficeDTO(office))
	}
	return out
}
