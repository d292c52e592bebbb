package pending

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/walletwatch/walletwatch/pkg/middleware"
	"github.com/walletwatch/walletwatch/pkg/response"
)

// Handler handles HTTP requests for pending balance operations
type Handler struct {
	service *Service
}

// NewHandler creates a new pending balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for pending balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/history", h.History)
	r.Post("/clear-history", h.ClearHistory)
	r.Put("/{id}/settle", h.Settle)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /pending-balances
// @Summary      Record a pending balance
// @Description  Record an ad-hoc debt between the two users, outside the monthly expense ledger
// @Tags         pending-balances
// @Accept       json
// @Produce      json
// @Param        request body CreatePendingBalanceRequest true "Pending balance creation request"
// @Success      201 {object} response.APIResponse{data=PendingBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /pending-balances [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreatePendingBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	pb, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrMissingField) || errors.Is(err, ErrAmountNotPositive) || errors.Is(err, ErrSelfReferential) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create pending balance")
		return
	}

	response.JSON(w, http.StatusCreated, pb.ToResponse())
}

// List handles GET /pending-balances?status=active|settled|all
// @Summary      List pending balances
// @Tags         pending-balances
// @Produce      json
// @Param        status query string false "Status filter" Enums(active, settled, all)
// @Success      200 {object} response.APIResponse{data=[]PendingBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /pending-balances [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))

	balances, err := h.service.List(r.Context(), status)
	if err != nil {
		response.InternalError(w, "Failed to list pending balances")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(balances))
}

// Settle handles PUT /pending-balances/{id}/settle
// @Summary      Settle a pending balance
// @Description  Mark a balance settled exactly once; concurrent settles lose with 404
// @Tags         pending-balances
// @Produce      json
// @Param        id path int true "Pending balance ID"
// @Success      200 {object} response.APIResponse{data=PendingBalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /pending-balances/{id}/settle [put]
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid pending balance ID")
		return
	}

	pb, err := h.service.Settle(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFoundOrAlreadySettled) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to settle pending balance")
		return
	}

	response.JSON(w, http.StatusOK, pb.ToResponse())
}

// Delete handles DELETE /pending-balances/{id}
// @Summary      Delete an unsettled pending balance
// @Description  Only the creator may delete, and only before settlement
// @Tags         pending-balances
// @Produce      json
// @Param        id path int true "Pending balance ID"
// @Success      200 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /pending-balances/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid pending balance ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrCannotDeleteSettled) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete pending balance")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// History handles GET /pending-balances/history
// @Summary      List settled balances still visible to the caller
// @Tags         pending-balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]PendingBalanceResponse}
// @Router       /pending-balances/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	balances, err := h.service.History(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load settled history")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(balances))
}

// ClearHistory handles POST /pending-balances/clear-history
// @Summary      Clear the caller's settled history
// @Description  Archives settled balances and hides them from the caller's history view; the counterparty keeps seeing them
// @Tags         pending-balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=ClearHistoryResponse}
// @Failure      500 {object} response.APIResponse
// @Router       /pending-balances/clear-history [post]
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.ClearHistory(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to clear settled history")
		return
	}

	if result.ClearedCount == 0 {
		response.JSON(w, http.StatusOK, &ClearHistoryResponse{
			Message:      "No settled history to clear",
			ClearedCount: 0,
		})
		return
	}

	response.JSON(w, http.StatusOK, &ClearHistoryResponse{
		Message:      "Settled history cleared successfully",
		ClearedCount: result.ClearedCount,
		BatchID:      result.BatchID,
	})
}

func toResponses(balances []*PendingBalance) []*PendingBalanceResponse {
	responses := make([]*PendingBalanceResponse, len(balances))
	for i, pb := range balances {
		responses[i] = pb.ToResponse()
	}
	return responses
}
