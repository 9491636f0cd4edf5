package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sat-ai-platform/client/internal/api"
	"github.com/sat-ai-platform/client/internal/app"
	"github.com/sat-ai-platform/client/internal/domain/question"
	"github.com/sat-ai-platform/client/internal/infrastructure/config"
	"github.com/sat-ai-platform/client/internal/service"
	"github.com/sat-ai-platform/client/internal/tokencache"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// ── Dependencies ────────────────────────────────────────────────
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, cfg.PageLimit, logger)
	tokens := tokencache.New(cfg.TokenPath)
	recorder := service.NewRecorder(client, logger)
	a := app.New(client, tokens, recorder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in := bufio.NewScanner(os.Stdin)

	// ── Sign in ─────────────────────────────────────────────────────
	resumed, err := a.Resume()
	if err != nil {
		logger.Error("failed to read cached token", "error", err)
	}
	if !resumed {
		if !signIn(ctx, a, in) {
			return
		}
	}

	// Questions and submissions load together; either may fail
	// independently and can be retried with the refresh command.
	reportRefresh(a.Refresh(ctx))

	runLoop(ctx, a, in)

	// In-flight submission persists are never cancelled by exit.
	logger.Info("waiting for pending submissions")
	recorder.Shutdown()
}

func signIn(ctx context.Context, a *app.App, in *bufio.Scanner) bool {
	for {
		email := prompt(in, "Email: ")
		password := prompt(in, "Password: ")
		if email == "" || password == "" {
			fmt.Println("Email and password are required.")
			continue
		}

		err := a.SignIn(ctx, email, password)
		if err == nil {
			return true
		}
		if errors.Is(err, context.Canceled) {
			return false
		}
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Login failed. Please check your credentials.")
			continue
		}
		fmt.Printf("Login failed: %v\n", err)
	}
}

func runLoop(ctx context.Context, a *app.App, in *bufio.Scanner) {
	fmt.Println("\nCommands: answer text, n(ext), p(rev), g <id>, wrong, csv, report, refresh, logout, quit")

	for ctx.Err() == nil {
		printQuestion(a)

		line, ok := read(in)
		if !ok {
			return
		}

		switch fields := strings.Fields(line); {
		case line == "quit" || line == "q":
			return
		case line == "n" || line == "next":
			a.Session().Advance()
		case line == "p" || line == "prev":
			a.Session().Retreat()
		case len(fields) == 2 && fields[0] == "g":
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil || !a.JumpTo(id) {
				fmt.Println("No such question.")
			}
		case line == "wrong":
			printWrong(a)
		case line == "csv":
			writeCSV(a)
		case line == "report":
			fmt.Print(a.ExportSnapshot())
		case line == "refresh":
			reportRefresh(a.Refresh(ctx))
		case line == "logout":
			a.SignOut()
			if !signIn(ctx, a, in) {
				return
			}
			reportRefresh(a.Refresh(ctx))
		case line == "":
			// empty input: redisplay
		default:
			submit(a, line)
		}
	}
}

func printQuestion(a *app.App) {
	s := a.Session()
	q, ok := s.Current()
	if !ok {
		fmt.Println("\nNo questions available. Try `refresh`.")
		return
	}

	fmt.Printf("\nQuestion %d of %d [%s]\n%s\n", s.Position()+1, s.Len(), q.Topic, q.Stem)
	if q.Kind == question.KindMultipleChoice {
		for i, opt := range q.Options {
			fmt.Printf("  %c) %s\n", 'A'+i, opt)
		}
	}

	if answer, correct, ok := s.Result(); ok {
		if correct {
			fmt.Printf("✓ Correct! (your answer: %s)\n", answer)
		} else {
			fmt.Printf("✗ Incorrect. Your answer: %s. Correct answer: %s\n", answer, q.Answer)
		}
	}
}

func submit(a *app.App, text string) {
	s := a.Session()
	if s.Judged() {
		fmt.Println("Already answered. Use n/p to navigate.")
		return
	}
	s.SetDraft(text)
	if _, ok := a.SubmitAnswer(); !ok {
		fmt.Println("Enter a non-empty answer first.")
	}
}

func printWrong(a *app.App) {
	wrong := a.WrongOnly()
	if len(wrong) == 0 {
		fmt.Println("No wrong answers. Nice.")
		return
	}
	fmt.Printf("Wrong answers (%d), `g <id>` to retry one:\n", len(wrong))
	for _, r := range wrong {
		stem := "Unknown question"
		if q, ok := a.Question(r.QuestionID); ok {
			stem = q.Stem
		}
		fmt.Printf("  [%d] %s (you answered: %s)\n", r.QuestionID, stem, r.UserAnswer)
	}
}

func writeCSV(a *app.App) {
	data, name, err := a.ExportCSV("", false)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Printf("Wrote %s (%d rows)\n", name, len(a.History()))
}

func reportRefresh(status app.RefreshStatus) {
	if status.QuestionsErr != nil {
		fmt.Println("Could not load questions, showing what we have. Try `refresh`.")
	}
	if status.SubmissionsErr != nil {
		fmt.Println("Could not load submission history. Try `refresh`.")
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	line, _ := read(in)
	return strings.TrimSpace(line)
}

func read(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}
