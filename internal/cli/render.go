package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/grader"
)

const timeLayout = "2006-01-02 15:04"

// PrintQuizList writes one row per quiz, newest first as the server returns them.
func PrintQuizList(w io.Writer, quizzes []dto.QuizSummaryResponse) error {
	if len(quizzes) == 0 {
		_, err := fmt.Fprintln(w, "No quizzes yet. Generate one with: quizcli generate -text \"...\"")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTITLE")
	for _, q := range quizzes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", q.ID, q.CreatedAt.Local().Format(timeLayout), q.Title)
	}
	return tw.Flush()
}

func PrintAttempts(w io.Writer, attempts []dto.AttemptResponse) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTEMPT\tQUIZ\tSCORE\tCOMPLETED\tDURATION")
	for _, a := range attempts {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d (%d%%)\t%s\t%s\n",
			a.ID, a.QuizID, a.Score, a.TotalQuestions, grader.Percentage(a.Score, a.TotalQuestions),
			a.CompletedAt.Local().Format(timeLayout), a.CompletedAt.Sub(a.StartedAt).Round(time.Second))
	}
	return tw.Flush()
}

// PrintQuiz lists the questions of quiz. Correct choices are marked only
// when withAnswers is set.
func PrintQuiz(w io.Writer, quiz *domain.Quiz, withAnswers bool) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\nID: %s\n", quiz.Title, quiz.Description, quiz.ID); err != nil {
		return err
	}
	for i, q := range quiz.Questions {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, q.Text)
		for j, c := range q.Choices {
			mark := ""
			if withAnswers && c.IsCorrect {
				mark = "  <- correct"
			}
			fmt.Fprintf(w, "   %c) %s%s\n", letter(j), c.Text, mark)
		}
		if withAnswers && q.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", q.Explanation)
		}
	}
	return nil
}
