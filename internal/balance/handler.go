package balance

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/walletwatch/walletwatch/pkg/middleware"
	"github.com/walletwatch/walletwatch/pkg/response"
)

// Handler handles HTTP requests for the settlement summary
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Summary)

	return r
}

// Summary handles GET /balance?month=YYYY-MM
// @Summary      Settlement summary for a month
// @Description  Equal-split balance over both users' expenses combined with the caller's net active pending balances
// @Tags         balance
// @Produce      json
// @Param        month query string false "Month in YYYY-MM format (default: current month)"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /balance [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	summary, err := h.service.Summary(r.Context(), userID, month)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMonth):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrNoPartner):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute settlement summary")
		}
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
