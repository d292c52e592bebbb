package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/walletwatch/walletwatch/pkg/middleware"
	"github.com/walletwatch/walletwatch/pkg/response"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AuthRoutes returns the unauthenticated router: signup, login, and the
// security-question recovery flow
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Get("/question-catalog", h.QuestionCatalog)
	r.Post("/security-questions", h.SecurityQuestions)
	r.Post("/verify-security", h.VerifySecurity)
	r.Post("/reset-password", h.ResetPassword)

	return r
}

// Routes returns the authenticated router for account management
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)
	r.Get("/partner", h.Partner)
	r.Put("/partner", h.SetPartner)
	r.Put("/security-questions", h.UpdateSecurityQuestions)

	return r
}

// Signup handles POST /auth/signup
// @Summary      Create an account
// @Description  Registers a user with a bcrypt-hashed password and three recovery questions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailAlreadyInUse):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrMissingField), errors.Is(err, ErrWeakPassword), errors.Is(err, ErrThreeQuestionsRequired):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create account")
		}
		return
	}

	response.JSON(w, http.StatusCreated, u.ToResponse())
}

// Login handles POST /auth/login
// @Summary      Authenticate and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=LoginResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to log in")
		return
	}

	response.JSON(w, http.StatusOK, &LoginResponse{Token: token, User: u.ToResponse()})
}

// QuestionCatalog handles GET /auth/question-catalog
// @Summary      List the canned recovery questions
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]string}
// @Router       /auth/question-catalog [get]
func (h *Handler) QuestionCatalog(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, QuestionCatalog)
}

// SecurityQuestions handles POST /auth/security-questions
// @Summary      Get a user's recovery questions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SecurityQuestionsRequest true "Username"
// @Success      200 {object} response.APIResponse{data=[]string}
// @Failure      404 {object} response.APIResponse
// @Router       /auth/security-questions [post]
func (h *Handler) SecurityQuestions(w http.ResponseWriter, r *http.Request) {
	var req SecurityQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	questions, err := h.service.SecurityQuestions(r.Context(), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSecurityQuestionsNotSet):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to fetch security questions")
		}
		return
	}

	response.JSON(w, http.StatusOK, questions[:])
}

// VerifySecurity handles POST /auth/verify-security
// @Summary      Verify recovery answers
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifySecurityRequest true "Username and 3 answers"
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/verify-security [post]
func (h *Handler) VerifySecurity(w http.ResponseWriter, r *http.Request) {
	var req VerifySecurityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.VerifySecurityAnswers(r.Context(), req.Username, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrSecurityAnswerMismatch):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSecurityQuestionsNotSet), errors.Is(err, ErrThreeQuestionsRequired):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to verify security answers")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"verified": true, "user_id": u.ID})
}

// ResetPassword handles POST /auth/reset-password
// @Summary      Reset a password after answering recovery questions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset request"
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, ErrSecurityAnswerMismatch):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrSecurityQuestionsNotSet), errors.Is(err, ErrThreeQuestionsRequired):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to reset password")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// Me handles GET /users/me
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch user")
		return
	}

	response.JSON(w, http.StatusOK, u.ToResponse())
}

// Partner handles GET /users/partner
// @Summary      Get the authenticated user's expense partner
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/partner [get]
func (h *Handler) Partner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	partner, err := h.service.Partner(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoPartner) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to fetch partner")
		return
	}

	response.JSON(w, http.StatusOK, partner.ToResponse())
}

// SetPartner handles PUT /users/partner
// @Summary      Link the authenticated user with their expense partner
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body SetPartnerRequest true "Partner user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /users/partner [put]
func (h *Handler) SetPartner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SetPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SetPartner(r.Context(), userID, req.PartnerID); err != nil {
		switch {
		case errors.Is(err, ErrCannotPairSelf):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to set partner")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"paired": true})
}

// UpdateSecurityQuestions handles PUT /users/security-questions
// @Summary      Replace the authenticated user's recovery questions
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateSecurityQuestionsRequest true "Three questions with answers"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /users/security-questions [put]
func (h *Handler) UpdateSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateSecurityQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.UpdateSecurityQuestions(r.Context(), userID, &req); err != nil {
		if errors.Is(err, ErrThreeQuestionsRequired) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update security questions")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}
