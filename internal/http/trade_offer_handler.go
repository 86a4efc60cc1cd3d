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

type tradeService interface {
	OfferTrade(ctx context.Context, params application.OfferTradeParams) (application.TradeOffer, error)
	ApproveTrade(ctx context.Context, offerID string, isManager bool) (application.TradeOffer, error)
	DenyTrade(ctx context.Context, offerID string, isManager bool) error
}

type TradeOfferHandler struct {
	service   tradeService
	responder responder
}

func NewTradeOfferHandler(service tradeService, logger *slog.Logger) *TradeOfferHandler {
	return &TradeOfferHandler{service: service, responder: newResponder(logger)}
}

func (h *TradeOfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req tradeOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	requestID, err := identity.Parse(req.CoverageRequestID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfferID)
		return
	}
	shiftID, err := identity.Parse(req.ShiftOfferedID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidShiftID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	offer, err := h.service.OfferTrade(r.Context(), application.OfferTradeParams{
		Principal:         principal,
		CoverageRequestID: requestID,
		ShiftOfferedID:    shiftID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toTradeOfferDTO(offer))
}

func (h *TradeOfferHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	offerID, ok := h.offerIDFromRequest(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	offer, err := h.service.ApproveTrade(r.Context(), offerID, principal.IsManager)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTradeOfferDTO(offer))
}

func (h *TradeOfferHandler) Deny(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	offerID, ok := h.offerIDFromRequest(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DenyTrade(r.Context(), offerID, principal.IsManager); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TradeOfferHandler) offerIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	rawID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rawID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfferID)
		return "", false
	}
	offerID, err := identity.Parse(rawID)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOfferID)
		return "", false
	}
	return offerID, true
}

type tradeOfferRequest struct {
	CoverageRequestID string `json:"coverage_request_id"`
	ShiftOfferedID    string `json:"shift_offered_id"`
}

type tradeOfferDTO struct {
	ID                string    `json:"id"`
	CoverageRequestID string    `json:"coverage_request_id"`
	ShiftOfferedID    string    `json:"shift_offered_id"`
	EmployeeApproval  string    `json:"employee_approval"`
	ManagerApproval   string    `json:"manager_approval"`
	State             string    `json:"state"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toTradeOfferDTO(offer application.TradeOffer) tradeOfferDTO {
	return tradeOfferDTO{
		ID:                offer.ID,
		CoverageRequestID: offer.CoverageRequestID,
		ShiftOfferedID:    offer.ShiftOfferedID,
		EmployeeApproval:  string(offer.EmployeeApproval),
		ManagerApproval:   string(offer.ManagerApproval),
		State:             string(offer.State()),
		CreatedAt:         offer.CreatedAt,
		UpdatedAt:         offer.UpdatedAt,
	}
}
