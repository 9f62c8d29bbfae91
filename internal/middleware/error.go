package middleware

import (
	"errors"
	"net/http"

	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists each rejected field.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

const codeHTTPError = "HTTP_ERROR"

// Codes not listed here are server faults.
var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:     http.StatusNotFound,
	domain.CodeQuizNotFound: http.StatusNotFound,

	domain.CodeInvalidInput:       http.StatusBadRequest,
	domain.CodeValidation:         http.StatusBadRequest,
	domain.CodeMissingField:       http.StatusBadRequest,
	domain.CodeInvalidFormat:      http.StatusBadRequest,
	domain.CodeOutOfRange:         http.StatusBadRequest,
	domain.CodeUnsupportedFormat:  http.StatusBadRequest,
	domain.CodeContentTooShort:    http.StatusBadRequest,
	domain.CodeExtractionFailed:   http.StatusBadRequest,
	domain.CodeUserAlreadyExists:  http.StatusBadRequest,
	domain.CodeInvalidCredentials: http.StatusBadRequest,

	domain.CodeUnauthorized: http.StatusUnauthorized,
}

// StatusForCode returns the HTTP status a domain error code is reported with.
func StatusForCode(code domain.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler is installed through fiber.Config.ErrorHandler. Causes are
// logged, never returned.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body, fields := describeError(err)

		level := zapcore.WarnLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		fields = append(fields, zap.String("path", c.Path()), zap.Int("status", status))
		if ce := logger.Get().Check(level, "Request failed"); ce != nil {
			ce.Write(fields...)
		}

		return c.Status(status).JSON(body)
	}
}

func describeError(err error) (int, interface{}, []zap.Field) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		resp := ValidationErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: validationErrs.Error(),
			Status:  http.StatusBadRequest,
			Errors:  validationErrs,
		}
		return http.StatusBadRequest, resp, []zap.Field{
			zap.String("code", string(domain.CodeValidation)),
			zap.Int("error_count", len(validationErrs)),
		}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := StatusForCode(domainErr.Code)
		resp := ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  status,
		}
		if len(domainErr.Context) > 0 {
			resp.Details = domainErr.Context
		}
		return status, resp, []zap.Field{
			zap.String("code", string(domainErr.Code)),
			zap.String("message", domainErr.Message),
			zap.Error(domainErr.Cause),
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorResponse{
			Code:    codeHTTPError,
			Message: fiberErr.Message,
			Status:  fiberErr.Code,
		}, []zap.Field{zap.String("code", codeHTTPError), zap.String("message", fiberErr.Message)}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}, []zap.Field{zap.String("code", string(domain.CodeInternal)), zap.Error(err)}
}
