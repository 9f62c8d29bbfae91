package handler

import (
	"io"
	"strings"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/service"
	"quizzy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizService    domain.QuizService
	attemptService domain.AttemptService
	normalizer     *service.ContentNormalizer
	validator      *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizService domain.QuizService, attemptService domain.AttemptService, normalizer *service.ContentNormalizer) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
		normalizer:     normalizer,
		validator:      validation.NewValidator(),
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates multiple-choice questions from an uploaded document (PDF, DOC, DOCX, TXT, MD) or pasted text. Multipart requests may carry both; the file wins.
// @Tags quiz
// @Accept multipart/form-data,json
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file false "Document to generate from"
// @Param text formData string false "Text to generate from"
// @Param numQuestions formData int false "Number of questions (5-20, default 10)"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var (
		file   *service.UploadedFile
		text   string
		num    int
		numErr domain.ValidationErrors
	)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		uploaded, err := readUploadedFile(c)
		if err != nil {
			return err
		}
		file = uploaded
		text = c.FormValue("text")
		num, numErr = h.validator.ParseNumQuestions(c.FormValue("numQuestions"))
	} else {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
		text = req.Text
		num, numErr = h.validator.ParseNumQuestionsJSON(req.NumQuestions)
	}

	// Content problems are reported ahead of a bad question count.
	content, err := h.normalizer.Normalize(file, text)
	if err != nil {
		return err
	}
	if len(numErr) > 0 {
		return numErr
	}

	userID := middleware.UserID(c)
	logger.Get().Info("Generating quiz",
		zap.String("userID", userID),
		zap.String("source_type", string(content.SourceType)),
		zap.Int("content_chars", len([]rune(content.Text))),
		zap.Int("numQuestions", num))

	quiz, err := h.quizService.GenerateQuiz(c.UserContext(), userID, content, num)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// readUploadedFile returns nil when the form has no file part.
func readUploadedFile(c *fiber.Ctx) (*service.UploadedFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewExtractionFailedError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewExtractionFailedError(err)
	}
	return &service.UploadedFile{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get(fiber.HeaderContentType),
		Data:      data,
	}, nil
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns the quiz with its questions and choices. Quizzes of other users are reported as not found.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizService.GetQuiz(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// ListQuizzes godoc
// @Summary List my quizzes
// @Description Returns the caller's quizzes, newest first.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.QuizListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quiz/user/all [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	summaries, err := h.quizService.ListQuizzes(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizListResponse(summaries))
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes the quiz with its questions, choices and attempts.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.quizService.DeleteQuiz(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Msg: "Quiz deleted successfully"})
}

// SubmitAttempt godoc
// @Summary Submit a quiz attempt
// @Description Records a finished attempt. The submitted score is stored as given.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param request body dto.SubmitAttemptRequest true "Answers and score"
// @Success 200 {object} dto.SubmitAttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id}/submit [post]
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSubmitRequest(&req); len(errs) > 0 {
		return errs
	}

	submission := domain.AttemptSubmission{
		Answers:        make([]domain.AttemptAnswer, 0, len(req.Answers)),
		Score:          *req.Score,
		TotalQuestions: req.TotalQuestions,
	}
	if req.StartedAt != nil {
		submission.StartedAt = *req.StartedAt
	}
	for _, a := range req.Answers {
		submission.Answers = append(submission.Answers, domain.AttemptAnswer{
			QuestionID:       a.QuestionID,
			SelectedChoiceID: a.SelectedChoiceID,
		})
	}

	attempt, err := h.attemptService.SubmitAttempt(c.UserContext(), middleware.UserID(c), c.Params("id"), submission)
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmitAttemptResponse{
		AttemptID:   attempt.ID,
		Score:       attempt.Score,
		CompletedAt: attempt.CompletedAt,
	})
}

// ListAttempts godoc
// @Summary List my attempts
// @Description Returns the caller's quiz attempts, newest first.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.AttemptListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quiz/attempts [get]
func (h *QuizHandler) ListAttempts(c *fiber.Ctx) error {
	attempts, err := h.attemptService.ListAttempts(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttemptListResponse(attempts))
}
