package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Content errors
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeContentTooShort   ErrorCode = "CONTENT_TOO_SHORT"
	CodeExtractionFailed  ErrorCode = "EXTRACTION_FAILED"

	// Quiz specific errors
	CodeQuizNotFound      ErrorCode = "QUIZ_NOT_FOUND"
	CodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	CodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"

	// Auth errors
	CodeUserAlreadyExists  ErrorCode = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail that is safe to return to the client.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// NewQuizNotFoundError is returned both when a quiz does not exist and when it
// belongs to someone else, so callers cannot probe for other users' quizzes.
func NewQuizNotFoundError() *DomainError {
	return NewError(CodeQuizNotFound, "Quiz not found", nil)
}

func NewUnsupportedFormatError(mediaType string) *DomainError {
	return NewError(CodeUnsupportedFormat,
		"Invalid file type. Only PDF, DOC, DOCX, TXT, and MD files are allowed.", nil).
		WithContext("media_type", mediaType)
}

func NewContentTooShortError(minChars int) *DomainError {
	return NewError(CodeContentTooShort,
		fmt.Sprintf("Content is too short. Please provide at least %d characters.", minChars), nil)
}

func NewExtractionFailedError(err error) *DomainError {
	return NewError(CodeExtractionFailed, "Failed to extract text from file", err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

func NewGenerationFailedError(err error) *DomainError {
	return NewError(CodeGenerationFailed, "Failed to generate quiz questions", err)
}

// NewPersistenceFailedError reports the 1-based number of the question whose
// insert failed; 0 means the quiz row itself could not be written.
func NewPersistenceFailedError(questionNumber int, err error) *DomainError {
	msg := "Failed to save quiz to database"
	if questionNumber > 0 {
		msg = fmt.Sprintf("Failed to save questions to database at question %d", questionNumber)
	}
	return NewError(CodePersistenceFailed, msg, err).WithContext("question_number", questionNumber)
}

func NewUserAlreadyExistsError() *DomainError {
	return NewError(CodeUserAlreadyExists, "User already exists", nil)
}

func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "Invalid credentials", nil)
}
