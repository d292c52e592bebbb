package user

import "time"

// User represents one of the two account holders
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Security questions for password recovery; answers are stored as
	// bcrypt hashes of the lowercased, trimmed input
	SecurityQuestions [3]string `json:"-"`
	SecurityAnswers   [3]string `json:"-"`
}

// SecurityQuestionsSet reports whether all three recovery questions are
// configured for the account
func (u *User) SecurityQuestionsSet() bool {
	for i := range u.SecurityQuestions {
		if u.SecurityQuestions[i] == "" || u.SecurityAnswers[i] == "" {
			return false
		}
	}
	return true
}

// QuestionCatalog is the canned list of recovery questions offered at signup
var QuestionCatalog = []string{
	"What was the name of your first pet?",
	"What is your mother's maiden name?",
	"What city were you born in?",
	"What was the name of your first school?",
	"What is your favorite movie?",
	"What was your childhood nickname?",
	"What is the name of your best friend from childhood?",
	"What was the make of your first car?",
	"What is your favorite food?",
	"What was the name of your favorite teacher?",
	"What street did you grow up on?",
	"What is your favorite color?",
	"What was the name of your first boss?",
	"What is your father's middle name?",
	"What was your favorite subject in school?",
}
