package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrMissingField            = errors.New("username, email, and password are required")
	ErrWeakPassword            = errors.New("password must be at least 8 characters")
	ErrUsernameTaken           = errors.New("username already in use")
	ErrEmailAlreadyInUse       = errors.New("email already in use")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrUserNotFound            = errors.New("user not found")
	ErrThreeQuestionsRequired  = errors.New("exactly 3 security questions with answers are required")
	ErrSecurityQuestionsNotSet = errors.New("security questions not set for this account")
	ErrSecurityAnswerMismatch  = errors.New("security answers do not match")
	ErrNoPartner               = errors.New("no partner configured for this account")
	ErrCannotPairSelf          = errors.New("cannot pair an account with itself")
)

// Storage defines the persistence operations the user service needs
type Storage interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateSecurityQuestions(ctx context.Context, userID int64, questions, answerHashes [3]string) error
	PartnerOf(ctx context.Context, userID int64) (*User, error)
	SetPartner(ctx context.Context, userID, partnerID int64) error
}

// Service handles account, recovery, and pairing logic
type Service struct {
	storage    Storage
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewService creates a new user service
func NewService(storage Storage, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		storage:    storage,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account with a hashed password and three recovery
// questions whose answers are hashed after normalization
func (s *Service) Register(ctx context.Context, req *SignupRequest) (*User, error) {
	if req.Username == "" || req.Email == "" {
		return nil, ErrMissingField
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	questions, answerHashes, err := s.hashQuestionSet(req.SecurityQuestions)
	if err != nil {
		return nil, err
	}

	if existing, err := s.storage.GetByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.storage.GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.storage.Create(ctx, &User{
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      string(passwordHash),
		SecurityQuestions: questions,
		SecurityAnswers:   answerHashes,
	})
}

// Login authenticates the user and issues a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	u, err := s.storage.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// SecurityQuestions returns the three recovery questions for a username
func (s *Service) SecurityQuestions(ctx context.Context, username string) ([3]string, error) {
	u, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		return [3]string{}, err
	}
	if u == nil {
		return [3]string{}, ErrUserNotFound
	}
	if !u.SecurityQuestionsSet() {
		return [3]string{}, ErrSecurityQuestionsNotSet
	}
	return u.SecurityQuestions, nil
}

// VerifySecurityAnswers checks all three recovery answers and returns the
// user when they match
func (s *Service) VerifySecurityAnswers(ctx context.Context, username string, answers []string) (*User, error) {
	if len(answers) != 3 {
		return nil, ErrThreeQuestionsRequired
	}

	u, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.SecurityQuestionsSet() {
		return nil, ErrSecurityQuestionsNotSet
	}

	for i := range answers {
		if err := bcrypt.CompareHashAndPassword(
			[]byte(u.SecurityAnswers[i]),
			[]byte(normalizeAnswer(answers[i])),
		); err != nil {
			return nil, ErrSecurityAnswerMismatch
		}
	}

	return u, nil
}

// ResetPassword replaces the password after the recovery answers verify.
// This is the only reset flow; there is no email-based reset.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrWeakPassword
	}

	u, err := s.VerifySecurityAnswers(ctx, req.Username, req.Answers)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.storage.UpdatePassword(ctx, u.ID, string(passwordHash))
}

// UpdateSecurityQuestions replaces the caller's recovery questions
func (s *Service) UpdateSecurityQuestions(ctx context.Context, userID int64, req *UpdateSecurityQuestionsRequest) error {
	questions, answerHashes, err := s.hashQuestionSet(req.SecurityQuestions)
	if err != nil {
		return err
	}
	return s.storage.UpdateSecurityQuestions(ctx, userID, questions, answerHashes)
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Partner retrieves the caller's expense partner
func (s *Service) Partner(ctx context.Context, userID int64) (*User, error) {
	partner, err := s.storage.PartnerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNoPartner
	}
	return partner, nil
}

// SetPartner links the caller with another account
func (s *Service) SetPartner(ctx context.Context, userID, partnerID int64) error {
	if userID == partnerID {
		return ErrCannotPairSelf
	}
	partner, err := s.storage.GetByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if partner == nil {
		return ErrUserNotFound
	}
	return s.storage.SetPartner(ctx, userID, partnerID)
}

// issueToken signs an HS256 token whose subject is the user ID
func (s *Service) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// hashQuestionSet validates and hashes a three-question set
func (s *Service) hashQuestionSet(qas []*SecurityQuestionAnswer) ([3]string, [3]string, error) {
	var questions, answerHashes [3]string
	if len(qas) != 3 {
		return questions, answerHashes, ErrThreeQuestionsRequired
	}

	for i, qa := range qas {
		if qa == nil || qa.Question == "" || strings.TrimSpace(qa.Answer) == "" {
			return questions, answerHashes, ErrThreeQuestionsRequired
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(normalizeAnswer(qa.Answer)), s.bcryptCost)
		if err != nil {
			return questions, answerHashes, fmt.Errorf("failed to hash security answer: %w", err)
		}
		questions[i] = qa.Question
		answerHashes[i] = string(hash)
	}

	return questions, answerHashes, nil
}

// normalizeAnswer makes recovery answers case- and whitespace-insensitive
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
