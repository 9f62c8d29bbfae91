package validation

import (
	"encoding/json"
	"testing"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateRegisterRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		req    dto.RegisterRequest
		fields []string
	}{
		{"valid", dto.RegisterRequest{Email: "ada@example.com", Password: "pw"}, nil},
		{"missing both", dto.RegisterRequest{}, []string{"email", "password"}},
		{"email without at", dto.RegisterRequest{Email: "ada.example.com", Password: "pw"}, []string{"email"}},
		{"padded email", dto.RegisterRequest{Email: "  ada@example.com ", Password: "pw"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateRegisterRequest(&tt.req)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidator_ValidateLoginRequest(t *testing.T) {
	v := NewValidator()

	errs := v.ValidateLoginRequest(&dto.LoginRequest{Email: "ada@example.com"})

	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	assert.Equal(t, "password", errs[0].Field)
}

func TestValidator_ValidateQuizID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateQuizID(util.NewULID()))
	assert.Equal(t, domain.CodeInvalidFormat, v.ValidateQuizID("not-a-ulid")[0].Code)
	assert.Equal(t, domain.CodeMissingField, v.ValidateQuizID(" ")[0].Code)
}

func TestValidator_ParseNumQuestions(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		raw  string
		want int
		code domain.ErrorCode
	}{
		{"", 0, ""},
		{"5", 5, ""},
		{" 20 ", 20, ""},
		{"0", 0, ""},
		{"4", 0, domain.CodeOutOfRange},
		{"21", 0, domain.CodeOutOfRange},
		{"ten", 0, domain.CodeInvalidFormat},
		{"7.5", 0, domain.CodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, errs := v.ParseNumQuestions(tt.raw)
			if tt.code == "" {
				assert.Empty(t, errs)
				assert.Equal(t, tt.want, n)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, "numQuestions", errs[0].Field)
		})
	}
}

func TestValidator_ParseNumQuestionsJSON(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{``, 0, true},
		{`null`, 0, true},
		{`12`, 12, true},
		{`"8"`, 8, true},
		{`"abc"`, 0, false},
		{`true`, 0, false},
		{`50`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, errs := v.ParseNumQuestionsJSON(json.RawMessage(tt.raw))
			assert.Equal(t, tt.ok, len(errs) == 0)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestValidator_ValidateSubmitRequest(t *testing.T) {
	v := NewValidator()
	score := func(n int) *int { return &n }

	assert.Empty(t, v.ValidateSubmitRequest(&dto.SubmitAttemptRequest{Score: score(0)}))
	assert.Empty(t, v.ValidateSubmitRequest(&dto.SubmitAttemptRequest{
		Score:          score(2),
		TotalQuestions: 5,
		Answers:        []dto.AnswerRequest{{QuestionID: "q", SelectedChoiceID: "c"}},
	}))

	errs := v.ValidateSubmitRequest(&dto.SubmitAttemptRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "score", errs[0].Field)

	errs = v.ValidateSubmitRequest(&dto.SubmitAttemptRequest{Score: score(6), TotalQuestions: 5})
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)

	errs = v.ValidateSubmitRequest(&dto.SubmitAttemptRequest{
		Score:   score(1),
		Answers: []dto.AnswerRequest{{QuestionID: "q"}},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "answers[0].selected_choice_id", errs[0].Field)
}
