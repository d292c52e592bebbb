package note

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/walletwatch/walletwatch/pkg/middleware"
	"github.com/walletwatch/walletwatch/pkg/response"
)

// Handler handles HTTP requests for monthly notes
type Handler struct {
	repo *Repository
}

// NewHandler creates a new note handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes returns the router for note endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Put("/", h.Save)

	return r
}

// Get handles GET /notes?month=YYYY-MM
// @Summary      Get the caller's note for a month
// @Tags         notes
// @Produce      json
// @Param        month query string true "Month in YYYY-MM format"
// @Success      200 {object} response.APIResponse{data=Note}
// @Failure      400 {object} response.APIResponse
// @Router       /notes [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	month := r.URL.Query().Get("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		response.BadRequest(w, "Month must be in YYYY-MM format")
		return
	}

	note, err := h.repo.GetByUserAndMonth(r.Context(), userID, month)
	if err != nil {
		response.InternalError(w, "Failed to fetch note")
		return
	}
	if note == nil {
		// missing note reads as empty content, matching the entry form
		note = &Note{UserID: userID, Month: month}
	}

	response.JSON(w, http.StatusOK, note)
}

// Save handles PUT /notes
// @Summary      Save the caller's note for a month
// @Description  Upserts the single note row per (user, month) pair
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        request body SaveNoteRequest true "Note content"
// @Success      200 {object} response.APIResponse{data=Note}
// @Failure      400 {object} response.APIResponse
// @Router       /notes [put]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SaveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		response.BadRequest(w, "Month must be in YYYY-MM format")
		return
	}

	note, err := h.repo.Upsert(r.Context(), userID, req.Month, req.NoteContent)
	if err != nil {
		response.InternalError(w, "Failed to save note")
		return
	}

	response.JSON(w, http.StatusOK, note)
}
