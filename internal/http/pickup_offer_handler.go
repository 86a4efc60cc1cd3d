package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/identity"
)

type pickupService interface {
	PickupShift(ctx context.Context, params application.PickupShiftParams) (application.PickupOffer, error)
	ApprovePickup(ctx context.Context, offerID string) (application.PickupOffer, error)
	DenyPickup(ctx context.Context, offerID string) (application.PickupOffer, error)
}

type PickupOfferHandler struct {
	service   pickupService
	responder responder
}

func NewPickupOfferHandler(service pickupService, logger *slog.Logger) *PickupOfferHandler {
	return &PickupOfferHandler{service: service, responder: newResponder(logger)}
}

func (h *PickupOfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req pickupOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	shiftID, err := identity.Parse(req.ShiftID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	// The employee defaults to the caller; managers may submit on behalf of
	// someone else.
	employeeID := ""
	if req.EmployeeID != nil && strings.TrimSpace(*req.EmployeeID) != "" {
		employeeID, err = identity.Parse(*req.EmployeeID)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
			return
		}
	}

	principal, _ := PrincipalFromContext(r.Context())

	offer, err := h.service.PickupShift(r.Context(), application.PickupShiftParams{
		Principal:  principal,
		ShiftID:    shiftID,
		EmployeeID: employeeID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toPickupOfferDTO(offer))
}

func (h *PickupOfferHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *PickupOfferHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *PickupOfferHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rawID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rawID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfferID)
		return
	}
	offerID, err := identity.Parse(rawID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfferID)
		return
	}

	var offer application.PickupOffer
	if approve {
		offer, err = h.service.ApprovePickup(r.Context(), offerID)
	} else {
		offer, err = h.service.DenyPickup(r.Context(), offerID)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPickupOfferDTO(offer))
}

type pickupOfferRequest struct {
	ShiftID    string  `json:"shift_id"`
	EmployeeID *string `json:"employee_id"`
}

type pickupOfferDTO struct {
	ID              string    `json:"id"`
	ShiftID         string    `json:"shift_id"`
	EmployeeID      string    `json:"employee_id"`
	ManagerApproval string    `json:"manager_approval"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPickupOfferDTO(offer application.PickupOffer) pickupOfferDTO {
	return pickupOfferDTO{
		ID:              offer.ID,
		ShiftID:         offer.ShiftID,
		EmployeeID:      offer.EmployeeID,
		ManagerApproval: string(offer.ManagerApproval),
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
	}
}
