package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// fakeStorage is an in-memory Storage for service tests
type fakeStorage struct {
	nextID int64
	users  map[int64]*User
	pairs  map[int64]int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{nextID: 1, users: make(map[int64]*User), pairs: make(map[int64]int64)}
}

func (f *fakeStorage) Create(_ context.Context, u *User) (*User, error) {
	stored := *u
	stored.ID = f.nextID
	stored.CreatedAt = time.Now().UTC()
	f.nextID++
	f.users[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeStorage) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) GetByID(_ context.Context, id int64) (*User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStorage) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeStorage) UpdateSecurityQuestions(_ context.Context, userID int64, questions, answerHashes [3]string) error {
	if u, ok := f.users[userID]; ok {
		u.SecurityQuestions = questions
		u.SecurityAnswers = answerHashes
	}
	return nil
}

func (f *fakeStorage) PartnerOf(_ context.Context, userID int64) (*User, error) {
	if partnerID, ok := f.pairs[userID]; ok {
		return f.GetByID(context.Background(), partnerID)
	}
	return nil, nil
}

func (f *fakeStorage) SetPartner(_ context.Context, userID, partnerID int64) error {
	f.pairs[userID] = partnerID
	f.pairs[partnerID] = userID
	return nil
}

func newTestService(storage Storage) *Service {
	// MinCost keeps the bcrypt-heavy tests fast
	return NewService(storage, "test-secret", time.Hour, bcrypt.MinCost)
}

func signupRequest() *SignupRequest {
	return &SignupRequest{
		Username: "soumyansh",
		Email:    "soumyansh@example.com",
		Password: "correct-horse",
		SecurityQuestions: []*SecurityQuestionAnswer{
			{Question: QuestionCatalog[0], Answer: "Rex"},
			{Question: QuestionCatalog[2], Answer: "Delhi"},
			{Question: QuestionCatalog[4], Answer: "Inception"},
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service := newTestService(newFakeStorage())
	ctx := context.Background()

	u, err := service.Register(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if u.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if !u.SecurityQuestionsSet() {
		t.Error("security questions not stored")
	}

	loggedIn, token, err := service.Login(ctx, &LoginRequest{Username: "soumyansh", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if loggedIn.ID != u.ID {
		t.Errorf("Login() user ID = %d, want %d", loggedIn.ID, u.ID)
	}
	if token == "" {
		t.Error("Login() returned empty token")
	}

	if _, _, err := service.Login(ctx, &LoginRequest{Username: "soumyansh", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := service.Login(ctx, &LoginRequest{Username: "nobody", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login(unknown user) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *SignupRequest)
		wantErr error
	}{
		{
			name:    "short password",
			mutate:  func(req *SignupRequest) { req.Password = "short" },
			wantErr: ErrWeakPassword,
		},
		{
			name:    "missing username",
			mutate:  func(req *SignupRequest) { req.Username = "" },
			wantErr: ErrMissingField,
		},
		{
			name:    "two questions only",
			mutate:  func(req *SignupRequest) { req.SecurityQuestions = req.SecurityQuestions[:2] },
			wantErr: ErrThreeQuestionsRequired,
		},
		{
			name: "blank answer",
			mutate: func(req *SignupRequest) {
				req.SecurityQuestions[1].Answer = "   "
			},
			wantErr: ErrThreeQuestionsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeStorage())
			req := signupRequest()
			tt.mutate(req)
			if _, err := service.Register(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	service := newTestService(newFakeStorage())
	ctx := context.Background()

	if _, err := service.Register(ctx, signupRequest()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	dup := signupRequest()
	dup.Email = "other@example.com"
	if _, err := service.Register(ctx, dup); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register(duplicate username) error = %v, want ErrUsernameTaken", err)
	}

	dup = signupRequest()
	dup.Username = "anu"
	if _, err := service.Register(ctx, dup); !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Errorf("Register(duplicate email) error = %v, want ErrEmailAlreadyInUse", err)
	}
}

func TestSecurityRecoveryFlow(t *testing.T) {
	service := newTestService(newFakeStorage())
	ctx := context.Background()

	if _, err := service.Register(ctx, signupRequest()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	questions, err := service.SecurityQuestions(ctx, "soumyansh")
	if err != nil {
		t.Fatalf("SecurityQuestions() error: %v", err)
	}
	if questions[0] != QuestionCatalog[0] {
		t.Errorf("question[0] = %q, want %q", questions[0], QuestionCatalog[0])
	}

	// Answers match case-insensitively and ignore surrounding whitespace
	if _, err := service.VerifySecurityAnswers(ctx, "soumyansh", []string{"  REX ", "delhi", "INCEPTION"}); err != nil {
		t.Errorf("VerifySecurityAnswers(normalized) error: %v", err)
	}

	if _, err := service.VerifySecurityAnswers(ctx, "soumyansh", []string{"Rex", "Delhi", "Titanic"}); !errors.Is(err, ErrSecurityAnswerMismatch) {
		t.Errorf("VerifySecurityAnswers(wrong) error = %v, want ErrSecurityAnswerMismatch", err)
	}

	if err := service.ResetPassword(ctx, &ResetPasswordRequest{
		Username:    "soumyansh",
		Answers:     []string{"Rex", "Delhi", "Inception"},
		NewPassword: "brand-new-password",
	}); err != nil {
		t.Fatalf("ResetPassword() error: %v", err)
	}

	if _, _, err := service.Login(ctx, &LoginRequest{Username: "soumyansh", Password: "brand-new-password"}); err != nil {
		t.Errorf("Login() after reset error: %v", err)
	}
	if _, _, err := service.Login(ctx, &LoginRequest{Username: "soumyansh", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestPartnerPairing(t *testing.T) {
	storage := newFakeStorage()
	service := newTestService(storage)
	ctx := context.Background()

	a, err := service.Register(ctx, signupRequest())
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	second := signupRequest()
	second.Username = "anu"
	second.Email = "anu@example.com"
	b, err := service.Register(ctx, second)
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if _, err := service.Partner(ctx, a.ID); !errors.Is(err, ErrNoPartner) {
		t.Errorf("Partner() before pairing error = %v, want ErrNoPartner", err)
	}
	if err := service.SetPartner(ctx, a.ID, a.ID); !errors.Is(err, ErrCannotPairSelf) {
		t.Errorf("SetPartner(self) error = %v, want ErrCannotPairSelf", err)
	}
	if err := service.SetPartner(ctx, a.ID, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetPartner(missing) error = %v, want ErrUserNotFound", err)
	}

	if err := service.SetPartner(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("SetPartner() error: %v", err)
	}
	partner, err := service.Partner(ctx, a.ID)
	if err != nil {
		t.Fatalf("Partner() error: %v", err)
	}
	if partner.ID != b.ID {
		t.Errorf("Partner() = %d, want %d", partner.ID, b.ID)
	}
	// The relation is symmetric
	partner, err = service.Partner(ctx, b.ID)
	if err != nil {
		t.Fatalf("Partner() error: %v", err)
	}
	if partner.ID != a.ID {
		t.Errorf("Partner() = %d, want %d", partner.ID, a.ID)
	}
}
