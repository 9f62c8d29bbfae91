package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"quizzy/internal/cli"
	"quizzy/internal/client"
	"quizzy/internal/config"
	"quizzy/internal/domain"
	"quizzy/internal/logger"

	"go.uber.org/zap"
)

const defaultServer = "http://localhost:5000"

var errUsage = errors.New("usage")

type app struct {
	api     *client.Client
	store   *client.SessionStore
	session *client.Session
	in      *bufio.Reader
	stdin   io.Reader
	out     io.Writer
}

func main() {
	server := flag.String("server", envOr("QUIZZY_API_URL", defaultServer), "API base URL")
	sessionPath := flag.String("session", "", "session file (default: user config dir)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	if err := logger.InitializeTo(config.LoggerConfig{Level: level, Env: "development"}, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	path := *sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	store := client.NewSessionStore(path)
	session, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Get().Debug("Session loaded", zap.String("path", path), zap.Bool("logged_in", session.LoggedIn()))

	a := &app{
		api:     client.New(*server, session),
		store:   store,
		session: session,
		in:      bufio.NewReader(os.Stdin),
		stdin:   os.Stdin,
		out:     os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: quizcli [flags] <command> [args]

Commands:
  register -email E [-name N]      create an account and log in
  login -email E                   log in
  logout                           forget the saved session
  generate (-text T | -file F) [-n N]
  list                             list your quizzes
  show [-answers] ID               print a quiz
  take ID                          take a quiz interactively
  delete ID                        delete a quiz
  attempts                         list your attempts

Flags:
`)
	flag.PrintDefaults()
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	}

	if !a.session.LoggedIn() {
		return errors.New("not logged in; run: quizcli login -email you@example.com")
	}
	switch cmd {
	case "generate":
		return a.generate(ctx, args)
	case "list":
		quizzes, err := a.api.ListQuizzes(ctx)
		if err != nil {
			return err
		}
		return cli.PrintQuizList(a.out, quizzes)
	case "show":
		return a.show(ctx, args)
	case "take":
		return a.take(ctx, args)
	case "delete":
		id, err := singleID("delete", args)
		if err != nil {
			return err
		}
		if err := a.api.DeleteQuiz(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Quiz deleted.")
		return nil
	case "attempts":
		attempts, err := a.api.ListAttempts(ctx)
		if err != nil {
			return err
		}
		return cli.PrintAttempts(a.out, attempts)
	default:
		usage()
		return errUsage
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	pw, err := a.passwordOrPrompt(*password)
	if err != nil {
		return err
	}
	resp, err := a.api.Register(ctx, *email, pw, *name)
	if err != nil {
		return err
	}
	if err := a.store.Save(a.session); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered as %s <%s>.\n", resp.User.Name, resp.User.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	pw, err := a.passwordOrPrompt(*password)
	if err != nil {
		return err
	}
	resp, err := a.api.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	if err := a.store.Save(a.session); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", resp.User.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	*a.session = client.Session{}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	text := fs.String("text", "", "source text")
	file := fs.String("file", "", "source file (.pdf, .docx, .txt, .md)")
	n := fs.Int("n", 0, "number of questions, 5 to 20 (server default when 0)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if (*text == "") == (*file == "") {
		return errors.New("generate needs exactly one of -text or -file")
	}

	fmt.Fprintln(a.out, "Generating quiz, this can take a minute...")
	logger.Get().Debug("Generating quiz", zap.String("file", *file), zap.Int("num_questions", *n))

	var (
		quiz *domain.Quiz
		err  error
	)
	if *file != "" {
		quiz, err = a.api.GenerateFromFile(ctx, *file, *n)
	} else {
		quiz, err = a.api.GenerateFromText(ctx, *text, *n)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %q with %d questions.\nTake it with: quizcli take %s\n", quiz.Title, len(quiz.Questions), quiz.ID)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	answers := fs.Bool("answers", false, "mark correct choices")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	id, err := singleID("show", fs.Args())
	if err != nil {
		return err
	}
	quiz, err := a.api.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	return cli.PrintQuiz(a.out, quiz, *answers)
}

func (a *app) take(ctx context.Context, args []string) error {
	id, err := singleID("take", args)
	if err != nil {
		return err
	}
	quiz, err := a.api.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	taker := cli.NewTaker(a.stdin, a.out)
	return taker.Take(ctx, quiz, func(ctx context.Context, result cli.Result) error {
		resp, err := a.api.SubmitAttempt(ctx, quiz.ID, result.Request())
		if err != nil {
			logger.Get().Debug("Attempt submit failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
			return err
		}
		logger.Get().Debug("Attempt saved", zap.String("attempt_id", resp.AttemptID))
		return nil
	})
}

func (a *app) passwordOrPrompt(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(a.out, "Password: ")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func singleID(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%s needs exactly one quiz id", cmd)
	}
	return args[0], nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
