package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
)

var (
	ulidPattern  = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)
)

const maxPasswordBytes = 72 // bcrypt ignores anything longer

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegisterRequest validates the registration request
func (v *Validator) ValidateRegisterRequest(req *dto.RegisterRequest) domain.ValidationErrors {
	errors := v.validateCredentials(req.Email, req.Password)
	if len(req.Password) > maxPasswordBytes {
		errors = append(errors, domain.NewOutOfRangeError("password", nil, 1, maxPasswordBytes))
	}
	return errors
}

// ValidateLoginRequest validates the login request
func (v *Validator) ValidateLoginRequest(req *dto.LoginRequest) domain.ValidationErrors {
	return v.validateCredentials(req.Email, req.Password)
}

func (v *Validator) validateCredentials(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	email = strings.TrimSpace(email)
	if email == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if !emailPattern.MatchString(email) {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// ValidateQuizID checks that a path id is a ULID.
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	if strings.TrimSpace(quizID) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	if !isValidULID(quizID) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("id", quizID)}
	}
	return nil
}

// ParseNumQuestions reads a question count given as a form value or a
// numeric string. An empty value yields 0, which means the default count.
func (v *Validator) ParseNumQuestions(raw string) (int, domain.ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("numQuestions", raw)}
	}
	if _, ok := domain.NormalizeQuestionCount(n); !ok {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("numQuestions", n, domain.MinQuestions, domain.MaxQuestions)}
	}
	return n, nil
}

// ParseNumQuestionsJSON accepts a JSON number, a numeric JSON string, null,
// or nothing.
func (v *Validator) ParseNumQuestionsJSON(raw json.RawMessage) (int, domain.ValidationErrors) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, domain.ValidationErrors{domain.NewInvalidFormatError("numQuestions", string(trimmed))}
		}
		return v.ParseNumQuestions(s)
	}
	return v.ParseNumQuestions(string(trimmed))
}

// ValidateSubmitRequest validates a quiz attempt submission
func (v *Validator) ValidateSubmitRequest(req *dto.SubmitAttemptRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Score == nil {
		errors = append(errors, domain.NewMissingFieldError("score"))
	} else if *req.Score < 0 {
		errors = append(errors, domain.NewOutOfRangeError("score", *req.Score, 0, domain.MaxQuestions))
	} else if req.TotalQuestions > 0 && *req.Score > req.TotalQuestions {
		errors = append(errors, domain.NewOutOfRangeError("score", *req.Score, 0, req.TotalQuestions))
	}

	if req.TotalQuestions < 0 {
		errors = append(errors, domain.NewOutOfRangeError("totalQuestions", req.TotalQuestions, 0, domain.MaxQuestions))
	}

	for i, a := range req.Answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			errors = append(errors, domain.NewMissingFieldError("answers["+strconv.Itoa(i)+"].question_id"))
		}
		if strings.TrimSpace(a.SelectedChoiceID) == "" {
			errors = append(errors, domain.NewMissingFieldError("answers["+strconv.Itoa(i)+"].selected_choice_id"))
		}
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
