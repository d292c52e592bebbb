package user

// SecurityQuestionAnswer is one question with its plaintext answer, as
// submitted at signup or when updating recovery questions
type SecurityQuestionAnswer struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// SignupRequest represents the request to create an account
type SignupRequest struct {
	Username          string                    `json:"username" validate:"required,min=3,max=50"`
	Email             string                    `json:"email" validate:"required,email"`
	Password          string                    `json:"password" validate:"required,min=8"`
	SecurityQuestions []*SecurityQuestionAnswer `json:"security_questions" validate:"required,len=3"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SecurityQuestionsRequest asks for a user's recovery questions
type SecurityQuestionsRequest struct {
	Username string `json:"username" validate:"required"`
}

// VerifySecurityRequest represents the request to verify recovery answers
type VerifySecurityRequest struct {
	Username string   `json:"username" validate:"required"`
	Answers  []string `json:"answers" validate:"required,len=3"`
}

// ResetPasswordRequest resets a password after answering the recovery
// questions; there is no email-based reset flow
type ResetPasswordRequest struct {
	Username    string   `json:"username" validate:"required"`
	Answers     []string `json:"answers" validate:"required,len=3"`
	NewPassword string   `json:"new_password" validate:"required,min=8"`
}

// UpdateSecurityQuestionsRequest replaces the caller's recovery questions
type UpdateSecurityQuestionsRequest struct {
	SecurityQuestions []*SecurityQuestionAnswer `json:"security_questions" validate:"required,len=3"`
}

// SetPartnerRequest links the caller with their expense partner
type SetPartnerRequest struct {
	PartnerID int64 `json:"partner_id" validate:"required"`
}

// UserResponse represents the response for a user
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse carries the session token alongside the user
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
