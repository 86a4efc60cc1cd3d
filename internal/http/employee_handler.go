package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/shift-exchange/internal/application"
)

type employeeDirectoryService interface {
	RegisterEmployee(ctx context.Context, input application.EmployeeInput) (application.Employee, error)
}

type EmployeeHandler struct {
	service   employeeDirectoryService
	responder responder
}

func NewEmployeeHandler(service employeeDirectoryService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, responder: newResponder(logger)}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	employee, err := h.service.RegisterEmployee(r.Context(), application.EmployeeInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEmployeeDTO(employee))
}

type employeeRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type employeeDTO struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEmployeeDTO(employee application.Employee) employeeDTO {
	return employeeDTO{
		ID:          employee.ID,
		DisplayName: employee.DisplayName,
		Role:        employee.Role,
		CreatedAt:   employee.CreatedAt,
		UpdatedAt:   employee.UpdatedAt,
	}
}
