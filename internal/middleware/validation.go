package middleware

import (
	"quizzy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const ValidatedQuizIDKey = "validated_quiz_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizID checks the :id path parameter before the handler runs.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID := c.Params("id")
		if errs := vm.validator.ValidateQuizID(quizID); len(errs) > 0 {
			return errs // handled by ErrorHandler
		}
		c.Locals(ValidatedQuizIDKey, quizID)
		return c.Next()
	}
}
