package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizzy/internal/dto"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sampleQuizResponse() dto.QuizResponse {
	return dto.QuizResponse{
		Quiz: dto.QuizInfo{ID: "quiz-1", Title: "Photosynthesis", Description: "AI-generated quiz from text"},
		Questions: []dto.QuestionResponse{{
			ID:       "q1",
			Question: "What do plants absorb?",
			Choices: []dto.ChoiceResponse{
				{ID: "c1", Text: "Light", IsCorrect: true},
				{ID: "c2", Text: "Sound"},
				{ID: "c3", Text: "Heat"},
				{ID: "c4", Text: "Wind"},
			},
		}},
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		writeJSON(w, http.StatusOK, dto.AuthResponse{
			Token: "tok-1",
			User:  dto.UserResponse{ID: "u1", Name: "ada", Email: "ada@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	resp, err := c.Login(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.True(t, c.Session().LoggedIn())
	assert.Equal(t, "u1", c.Session().User.ID)
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/quiz/user/all", r.URL.Path)
		writeJSON(w, http.StatusOK, dto.QuizListResponse{Quizzes: []dto.QuizSummaryResponse{{ID: "quiz-1", Title: "A"}}})
	}))
	defer srv.Close()

	c := New(srv.URL, &Session{Token: "tok-1"})
	quizzes, err := c.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "quiz-1", quizzes[0].ID)
}

func TestGenerateFromText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var raw map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, float64(7), raw["numQuestions"])
		writeJSON(w, http.StatusOK, sampleQuizResponse())
	}))
	defer srv.Close()

	c := New(srv.URL, &Session{Token: "tok"})
	quiz, err := c.GenerateFromText(context.Background(), "some text", 7)
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
	require.Len(t, quiz.Questions, 1)
	correct, err := quiz.Questions[0].CorrectChoice()
	require.NoError(t, err)
	assert.Equal(t, "c1", correct.ID)
}

func TestGenerateFromTextOmitsZeroCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, present := raw["numQuestions"]
		assert.False(t, present)
		writeJSON(w, http.StatusOK, sampleQuizResponse())
	}))
	defer srv.Close()

	_, err := New(srv.URL, &Session{Token: "tok"}).GenerateFromText(context.Background(), "text", 0)
	require.NoError(t, err)
}

func TestGenerateFromFileUploadsMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\nplants"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "6", r.FormValue("numQuestions"))
		f, fh, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "notes.md", fh.Filename)
			data, _ := io.ReadAll(f)
			assert.Equal(t, "# Notes\nplants", string(data))
		}
		writeJSON(w, http.StatusOK, sampleQuizResponse())
	}))
	defer srv.Close()

	quiz, err := New(srv.URL, &Session{Token: "tok"}).GenerateFromFile(context.Background(), path, 6)
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", quiz.ID)
}

func TestGenerateFromFileMissing(t *testing.T) {
	c := New("http://127.0.0.1:0", &Session{Token: "tok"})
	_, err := c.GenerateFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), 0)
	assert.Error(t, err)
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"code":    "QUIZ_NOT_FOUND",
			"message": "Quiz not found",
			"status":  404,
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, &Session{Token: "tok"}).GetQuiz(context.Background(), "01HZX")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "QUIZ_NOT_FOUND", apiErr.Code)
	assert.Contains(t, err.Error(), "Quiz not found")
}

func TestAPIErrorValidationList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "score is required",
			"status":  400,
			"errors":  []map[string]string{{"field": "score", "code": "MISSING_FIELD", "message": "score is required"}},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, &Session{Token: "tok"}).SubmitAttempt(context.Background(), "quiz-1", dto.SubmitAttemptRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "score", apiErr.Errors[0].Field)
}

func TestAPIErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListAttempts(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestSubmitAttempt(t *testing.T) {
	started := time.Date(2025, 3, 1, 11, 58, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quiz/quiz-1/submit", r.URL.Path)
		var req dto.SubmitAttemptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.NotNil(t, req.Score) {
			assert.Equal(t, 1, *req.Score)
		}
		assert.Len(t, req.Answers, 1)
		writeJSON(w, http.StatusOK, dto.SubmitAttemptResponse{AttemptID: "att-1", Score: 1})
	}))
	defer srv.Close()

	score := 1
	resp, err := New(srv.URL, &Session{Token: "tok"}).SubmitAttempt(context.Background(), "quiz-1", dto.SubmitAttemptRequest{
		Answers:        []dto.AnswerRequest{{QuestionID: "q1", SelectedChoiceID: "c1"}},
		Score:          &score,
		TotalQuestions: 1,
		StartedAt:      &started,
	})
	require.NoError(t, err)
	assert.Equal(t, "att-1", resp.AttemptID)
}

func TestDeleteQuiz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/quiz/quiz-1", r.URL.Path)
		writeJSON(w, http.StatusOK, dto.MessageResponse{Msg: "Quiz deleted successfully"})
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, &Session{Token: "tok"}).DeleteQuiz(context.Background(), "quiz-1"))
}
