package handler

import (
	"quizzy/internal/middleware"
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth        *AuthHandler
	Quiz        *QuizHandler
	Health      *HealthHandler
	AuthService service.AuthService
}

// SetupRoutes mounts the API under /api. Static quiz paths are registered
// before /quiz/:id so they are not captured as ids.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", h.Health.Root)

	api := app.Group("/api")
	api.Get("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	vm := middleware.NewValidationMiddleware()
	quiz := api.Group("/quiz", middleware.Protected(h.AuthService))
	quiz.Post("/generate", h.Quiz.GenerateQuiz)
	quiz.Get("/user/all", h.Quiz.ListQuizzes)
	quiz.Get("/attempts", h.Quiz.ListAttempts)
	quiz.Get("/:id", vm.ValidateQuizID(), h.Quiz.GetQuiz)
	quiz.Delete("/:id", vm.ValidateQuizID(), h.Quiz.DeleteQuiz)
	quiz.Post("/:id/submit", vm.ValidateQuizID(), h.Quiz.SubmitAttempt)
}
