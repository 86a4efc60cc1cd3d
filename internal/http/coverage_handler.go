package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/identity"
)

type coverageService interface {
	RequestCoverage(ctx context.Context, params application.RequestCoverageParams) (application.CoverageRequest, error)
}

type CoverageRequestHandler struct {
	service   coverageService
	responder responder
}

func NewCoverageRequestHandler(service coverageService, logger *slog.Logger) *CoverageRequestHandler {
	return &CoverageRequestHandler{service: service, responder: newResponder(logger)}
}

func (h *CoverageRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req coverageRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	shiftID, err := identity.Parse(req.ShiftID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	request, err := h.service.RequestCoverage(r.Context(), application.RequestCoverageParams{
		Principal:    principal,
		ShiftID:      shiftID,
		CoverageType: application.CoverageType(req.CoverageType),
		Note:         req.Note,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCoverageRequestDTO(request))
}

type coverageRequestRequest struct {
	ShiftID      string  `json:"shift_id"`
	CoverageType string  `json:"coverage_type"`
	Note         *string `json:"note"`
}

type coverageRequestDTO struct {
	ID           string    `json:"id"`
	ShiftID      string    `json:"shift_id"`
	EmployeeID   string    `json:"employee_id"`
	CoverageType string    `json:"coverage_type"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toCoverageRequestDTO(request application.CoverageRequest) coverageRequestDTO {
	return coverageRequestDTO{
		ID:           request.ID,
		ShiftID:      request.ShiftID,
		EmployeeID:   request.EmployeeID,
		CoverageType: string(request.CoverageType),
		Note:         request.Note,
		CreatedAt:    request.CreatedAt,
	}
}
