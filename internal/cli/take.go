// Package cli is the terminal front end for taking quizzes.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/grader"
)

const choiceLetters = "abcd"

// Result is a finished pass, ready to be posted as an attempt.
type Result struct {
	Answers   []dto.AnswerRequest
	Score     int
	Total     int
	StartedAt time.Time
}

// Request converts r into the submit payload.
func (r Result) Request() dto.SubmitAttemptRequest {
	score := r.Score
	started := r.StartedAt
	return dto.SubmitAttemptRequest{
		Answers:        r.Answers,
		Score:          &score,
		TotalQuestions: r.Total,
		StartedAt:      &started,
	}
}

// SubmitFunc records a finished pass. An error is reported to the user but
// does not end the session.
type SubmitFunc func(ctx context.Context, result Result) error

// Taker runs the interactive loop over line-oriented input.
type Taker struct {
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func NewTaker(in io.Reader, out io.Writer) *Taker {
	return &Taker{in: bufio.NewScanner(in), out: out, now: time.Now}
}

// Take walks the user through quiz until they quit or input ends.
//
//	a-d  select a choice     n/p  next/previous question
//	s    submit              r    retake after submitting
//	q    quit
func (t *Taker) Take(ctx context.Context, quiz *domain.Quiz, submit SubmitFunc) error {
	session, err := grader.NewSession(quiz.Questions)
	if err != nil {
		return err
	}
	startedAt := t.now()

	t.printf("%s\n%s\n", quiz.Title, strings.Repeat("=", len([]rune(quiz.Title))))
	t.printHelp()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if session.State() == grader.InProgress {
			t.renderQuestion(session)
		} else {
			t.printf("[r]etake or [q]uit\n")
		}
		t.printf("> ")

		if !t.in.Scan() {
			t.printf("\n")
			return t.in.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(t.in.Text()))

		switch {
		case cmd == "q":
			return nil
		case cmd == "n":
			session.Next()
		case cmd == "p":
			session.Previous()
		case cmd == "s":
			if session.State() != grader.InProgress {
				t.printf("Already submitted.\n")
				continue
			}
			if unanswered := session.TotalQuestions() - session.AnsweredCount(); unanswered > 0 {
				t.printf("%d question(s) unanswered; they count as wrong.\n", unanswered)
			}
			score, err := session.Submit()
			if err != nil {
				return err
			}
			t.renderResults(session, score)
			result := newResult(session, score, startedAt)
			if err := submit(ctx, result); err != nil {
				t.printf("Could not save attempt: %v\n", err)
			} else {
				t.printf("Attempt saved.\n")
			}
		case cmd == "r":
			if session.State() != grader.Submitted {
				t.printf("Submit first to retake.\n")
				continue
			}
			session.Reset()
			startedAt = t.now()
		case len(cmd) == 1 && strings.Contains(choiceLetters, cmd):
			t.selectChoice(session, strings.Index(choiceLetters, cmd))
		default:
			t.printHelp()
		}
	}
}

func (t *Taker) selectChoice(session *grader.Session, idx int) {
	if session.State() != grader.InProgress {
		t.printf("Already submitted. Press r to retake.\n")
		return
	}
	q := session.CurrentQuestion()
	if idx >= len(q.Choices) {
		t.printf("No choice %c for this question.\n", choiceLetters[idx])
		return
	}
	if err := session.SelectAnswer(q.ID, q.Choices[idx].ID); err != nil {
		t.printf("%v\n", err)
	}
}

func (t *Taker) renderQuestion(session *grader.Session) {
	q := session.CurrentQuestion()
	selected, _ := session.Selection(q.ID)
	t.printf("\nQuestion %d of %d (%.0f%%)\n%s\n",
		session.CurrentIndex()+1, session.TotalQuestions(), session.Progress(), q.Text)
	for i, c := range q.Choices {
		marker := " "
		if c.ID == selected {
			marker = "*"
		}
		t.printf(" %s %c) %s\n", marker, letter(i), c.Text)
	}
}

func (t *Taker) renderResults(session *grader.Session, score int) {
	total := session.TotalQuestions()
	t.printf("\nYou scored %d out of %d (%d%%)\n", score, total, grader.Percentage(score, total))
	for i, item := range session.Review() {
		mark := "x"
		if item.Correct {
			mark = "v"
		}
		t.printf("\n[%s] Question %d: %s\n", mark, i+1, item.Question.Text)
		for j, c := range item.Question.Choices {
			var tags []string
			if c.ID == item.CorrectChoiceID {
				tags = append(tags, "correct")
			}
			if item.Answered && c.ID == item.SelectedChoiceID {
				tags = append(tags, "your answer")
			}
			line := fmt.Sprintf("    %c) %s", letter(j), c.Text)
			if len(tags) > 0 {
				line += " (" + strings.Join(tags, ", ") + ")"
			}
			t.printf("%s\n", line)
		}
		if !item.Answered {
			t.printf("    not answered\n")
		}
		if item.Question.Explanation != "" {
			t.printf("    %s\n", item.Question.Explanation)
		}
	}
	t.printf("\n")
}

func (t *Taker) printHelp() {
	t.printf("a-d select, n next, p previous, s submit, r retake, q quit\n")
}

func (t *Taker) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func newResult(session *grader.Session, score int, startedAt time.Time) Result {
	review := session.Review()
	answers := make([]dto.AnswerRequest, 0, len(review))
	for _, item := range review {
		if !item.Answered {
			continue
		}
		answers = append(answers, dto.AnswerRequest{
			QuestionID:       item.Question.ID,
			SelectedChoiceID: item.SelectedChoiceID,
		})
	}
	return Result{
		Answers:   answers,
		Score:     score,
		Total:     session.TotalQuestions(),
		StartedAt: startedAt,
	}
}

func letter(i int) rune {
	if i < len(choiceLetters) {
		return rune(choiceLetters[i])
	}
	return '?'
}
