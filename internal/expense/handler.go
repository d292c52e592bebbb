package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/walletwatch/walletwatch/pkg/middleware"
	"github.com/walletwatch/walletwatch/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/chart", h.Chart)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /expenses
// @Summary      Log an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create expense")
		return
	}

	response.JSON(w, http.StatusCreated, expense.ToResponse())
}

// List handles GET /expenses?month=YYYY-MM
// @Summary      List expenses for a month
// @Description  Returns both users' expenses; the dashboard splits them per user
// @Tags         expenses
// @Produce      json
// @Param        month query string true "Month in YYYY-MM format"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "Month parameter is required")
		return
	}

	expenses, err := h.service.ListByMonth(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list expenses")
		return
	}

	responses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = e.ToResponse()
	}

	response.JSON(w, http.StatusOK, responses)
}

// Update handles PUT /expenses/{id}
// @Summary      Update an expense
// @Description  Only the owner can modify an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	expense, err := h.service.Update(r.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update expense")
		return
	}

	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Only the owner can delete an expense
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Chart handles GET /expenses/chart?month=YYYY-MM
// @Summary      Monthly spending chart data
// @Description  Combined totals for the given month and the five before it
// @Tags         expenses
// @Produce      json
// @Param        month query string true "Anchor month in YYYY-MM format"
// @Success      200 {object} response.APIResponse{data=[]MonthlyTotal}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/chart [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "Month parameter is required")
		return
	}

	points, err := h.service.ChartData(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to load chart data")
		return
	}

	response.JSON(w, http.StatusOK, points)
}

// Categories handles GET /expenses/categories
// @Summary      List the expense category catalog
// @Tags         expenses
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]string}
// @Router       /expenses/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, Categories)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrAmountNotPositive) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidDate)
}
