// Package client talks to the Quizzy HTTP API on behalf of the command line
// tool and keeps its login session on disk.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
)

const defaultTimeout = 2 * time.Minute

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int                      `json:"status"`
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Errors  []domain.ValidationError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Client is a thin JSON client bound to one base URL and session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for baseURL. A nil session means anonymous requests.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

// Register creates an account and stores the returned token in the session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	req := dto.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	c.session.Token = out.Token
	c.session.User = out.User
	return &out, nil
}

// Login stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.session.Token = out.Token
	c.session.User = out.User
	return &out, nil
}

// GenerateFromText asks for numQuestions questions; 0 leaves the count to the server.
func (c *Client) GenerateFromText(ctx context.Context, text string, numQuestions int) (*domain.Quiz, error) {
	req := dto.GenerateQuizRequest{Text: text}
	if numQuestions > 0 {
		req.NumQuestions = json.RawMessage(strconv.Itoa(numQuestions))
	}
	var out dto.QuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/quiz/generate", req, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

// GenerateFromFile uploads path as multipart form data.
func (c *Client) GenerateFromFile(ctx context.Context, path string, numQuestions int) (*domain.Quiz, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if numQuestions > 0 {
		if err := w.WriteField("numQuestions", strconv.Itoa(numQuestions)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out dto.QuizResponse
	if err := c.do(ctx, http.MethodPost, "/api/quiz/generate", w.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]dto.QuizSummaryResponse, error) {
	var out dto.QuizListResponse
	if err := c.do(ctx, http.MethodGet, "/api/quiz/user/all", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}

func (c *Client) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	var out dto.QuizResponse
	if err := c.do(ctx, http.MethodGet, "/api/quiz/"+url.PathEscape(quizID), "", nil, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID string) error {
	var out dto.MessageResponse
	return c.do(ctx, http.MethodDelete, "/api/quiz/"+url.PathEscape(quizID), "", nil, &out)
}

func (c *Client) SubmitAttempt(ctx context.Context, quizID string, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResponse, error) {
	var out dto.SubmitAttemptResponse
	path := "/api/quiz/" + url.PathEscape(quizID) + "/submit"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAttempts(ctx context.Context) ([]dto.AttemptResponse, error) {
	var out dto.AttemptListResponse
	if err := c.do(ctx, http.MethodGet, "/api/quiz/attempts", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Attempts, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.session.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
