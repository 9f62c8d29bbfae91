package dto

import (
	"encoding/json"
	"time"

	"quizzy/internal/domain"
)

// GenerateQuizRequest is the JSON form of a generation request.
// @Description Request body for generating a quiz from pasted text
type GenerateQuizRequest struct {
	Text string `json:"text"`
	// NumQuestions accepts a number or a numeric string.
	NumQuestions json.RawMessage `json:"numQuestions,omitempty" swaggertype:"integer"`
}

// QuizInfo is the quiz header returned with a full quiz.
type QuizInfo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChoiceResponse is one answer option.
type ChoiceResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse is one question with its four choices.
type QuestionResponse struct {
	ID          string           `json:"id"`
	Question    string           `json:"question"`
	Explanation string           `json:"explanation"`
	Choices     []ChoiceResponse `json:"choices"`
}

// QuizResponse represents a full quiz in the API response
// @Description Quiz with questions and choices
type QuizResponse struct {
	Quiz      QuizInfo           `json:"quiz"`
	Questions []QuestionResponse `json:"questions"`
}

// QuizSummaryResponse is one entry of the quiz list.
type QuizSummaryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuizListResponse wraps the caller's quizzes, newest first.
type QuizListResponse struct {
	Quizzes []QuizSummaryResponse `json:"quizzes"`
}

// AnswerRequest is one selected choice in a submission.
type AnswerRequest struct {
	QuestionID       string `json:"question_id"`
	SelectedChoiceID string `json:"selected_choice_id"`
}

// SubmitAttemptRequest represents a finished quiz attempt
// @Description Request body for submitting a quiz attempt
type SubmitAttemptRequest struct {
	Answers        []AnswerRequest `json:"answers"`
	Score          *int            `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
}

// SubmitAttemptResponse confirms a stored attempt.
type SubmitAttemptResponse struct {
	AttemptID   string    `json:"attempt_id"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// AttemptResponse is one entry of the attempt history.
type AttemptResponse struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// AttemptListResponse wraps the caller's attempts, newest first.
type AttemptListResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Msg string `json:"msg"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// NewQuizResponse builds the API form of a quiz. Questions and choices keep
// their stored order.
func NewQuizResponse(quiz *domain.Quiz) QuizResponse {
	resp := QuizResponse{
		Quiz: QuizInfo{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: quiz.Description,
			CreatedAt:   quiz.CreatedAt,
		},
		Questions: make([]QuestionResponse, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qr := QuestionResponse{
			ID:          q.ID,
			Question:    q.Text,
			Explanation: q.Explanation,
			Choices:     make([]ChoiceResponse, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			qr.Choices = append(qr.Choices, ChoiceResponse{ID: c.ID, Text: c.Text, IsCorrect: c.IsCorrect})
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}

// ToDomain converts the API form back into a quiz. Positions follow slice
// order.
func (r QuizResponse) ToDomain() *domain.Quiz {
	quiz := &domain.Quiz{
		ID:          r.Quiz.ID,
		Title:       r.Quiz.Title,
		Description: r.Quiz.Description,
		CreatedAt:   r.Quiz.CreatedAt,
		Questions:   make([]*domain.Question, 0, len(r.Questions)),
	}
	for i, qr := range r.Questions {
		q := &domain.Question{
			ID:          qr.ID,
			QuizID:      quiz.ID,
			Position:    i,
			Text:        qr.Question,
			Explanation: qr.Explanation,
			Type:        domain.QuestionTypeDefault,
			Choices:     make([]*domain.Choice, 0, len(qr.Choices)),
		}
		for j, cr := range qr.Choices {
			q.Choices = append(q.Choices, &domain.Choice{
				ID:         cr.ID,
				QuestionID: q.ID,
				Position:   j,
				Text:       cr.Text,
				IsCorrect:  cr.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func NewQuizListResponse(summaries []*domain.QuizSummary) QuizListResponse {
	resp := QuizListResponse{Quizzes: make([]QuizSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		resp.Quizzes = append(resp.Quizzes, QuizSummaryResponse{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
		})
	}
	return resp
}

func NewAttemptListResponse(attempts []*domain.QuizAttempt) AttemptListResponse {
	resp := AttemptListResponse{Attempts: make([]AttemptResponse, 0, len(attempts))}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, AttemptResponse{
			ID:             a.ID,
			QuizID:         a.QuizID,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			StartedAt:      a.StartedAt,
			CompletedAt:    a.CompletedAt,
		})
	}
	return resp
}
