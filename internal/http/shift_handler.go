package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/identity"
)

type shiftIntakeService interface {
	CreateShift(ctx context.Context, params application.CreateShiftParams) (application.Shift, error)
}

type shiftQueryService interface {
	GetShift(ctx context.Context, id string) (application.Shift, error)
	GetShifts(ctx context.Context, options application.ShiftQueryOptions) ([]application.Shift, error)
	GetOpenShifts(ctx context.Context, options application.ShiftQueryOptions) ([]application.Shift, error)
}

type ShiftHandler struct {
	intake    shiftIntakeService
	queries   shiftQueryService
	responder responder
}

func NewShiftHandler(intake shiftIntakeService, queries shiftQueryService, logger *slog.Logger) *ShiftHandler {
	return &ShiftHandler{intake: intake, queries: queries, responder: newResponder(logger)}
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.intake == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	shift, err := h.intake.CreateShift(r.Context(), application.CreateShiftParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toShiftDTO(shift))
}

func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.queries == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rawID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rawID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}
	shiftID, err := identity.Parse(rawID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	shift, err := h.queries.GetShift(r.Context(), shiftID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShiftDTO(shift))
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.queries == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := buildQueryOptions(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	shifts, err := h.queries.GetShifts(r.Context(), options)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listShiftsResponse{Shifts: toShiftDTOs(shifts)})
}

func (h *ShiftHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.queries == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := buildQueryOptions(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	shifts, err := h.queries.GetOpenShifts(r.Context(), options)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listShiftsResponse{Shifts: toShiftDTOs(shifts)})
}

// buildQueryOptions translates query parameters into shift query options.
// starts_after and starts_before take RFC 3339 timestamps; supplying either
// replaces the default "upcoming only" window.
func buildQueryOptions(values url.Values) (application.ShiftQueryOptions, error) {
	var options application.ShiftQueryOptions

	if employeeID := strings.TrimSpace(values.Get("employee_id")); employeeID != "" {
		parsed, err := identity.Parse(employeeID)
		if err != nil {
			return application.ShiftQueryOptions{}, errInvalidEmployeeID
		}
		options.EmployeeID = &parsed
	}
	if role := strings.TrimSpace(values.Get("role")); role != "" {
		options.RequiredRole = &role
	}

	var window application.TimeRange
	explicit := false
	if raw := strings.TrimSpace(values.Get("starts_after")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return application.ShiftQueryOptions{}, errBadRequestBody
		}
		window.Start = parsed
		explicit = true
	}
	if raw := strings.TrimSpace(values.Get("starts_before")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return application.ShiftQueryOptions{}, errBadRequestBody
		}
		window.End = parsed
		explicit = true
	}
	if explicit {
		options.TimeFilter = &window
	}

	return options, nil
}

type shiftRequest struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Location     string    `json:"location"`
	RequiredRole string    `json:"required_role"`
	EmployeeID   *string   `json:"employee_id"`
}

func (req shiftRequest) toInput() application.ShiftInput {
	return application.ShiftInput{
		Start:        req.Start,
		End:          req.End,
		Location:     req.Location,
		RequiredRole: req.RequiredRole,
		EmployeeID:   req.EmployeeID,
	}
}

type shiftDTO struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Location     string    `json:"location,omitempty"`
	RequiredRole string    `json:"required_role"`
	EmployeeID   *string   `json:"employee_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type listShiftsResponse struct {
	Shifts []shiftDTO `json:"shifts"`
}

func toShiftDTO(shift application.Shift) shiftDTO {
	return shiftDTO{
		ID:           shift.ID,
		Start:        shift.Period.Start,
		End:          shift.Period.End,
		Location:     shift.Location,
		RequiredRole: shift.RequiredRole,
		EmployeeID:   shift.EmployeeID,
		CreatedAt:    shift.CreatedAt,
		UpdatedAt:    shift.UpdatedAt,
	}
}

func toShiftDTOs(shifts []application.Shift) []shiftDTO {
	dtos := make([]shiftDTO, 0, len(shifts))
	for _, shift := range shifts {
		dtos = append(dtos, toShiftDTO(shift))
	}
	return dtos
}
