package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/passgen/passgen-go/internal/config"
	"github.com/passgen/passgen-go/internal/service"
	"github.com/passgen/passgen-go/internal/session"
	"github.com/passgen/passgen-go/internal/strength"
	"github.com/passgen/passgen-go/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "passgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// the terminal belongs to bubbletea; logs go to a file only when asked for
	if path := os.Getenv("PASSGEN_LOG"); path != "" {
		f, err := tea.LogToFile(path, "passgen")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	} else {
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}

	cfg := config.Load()

	ctx := context.Background()
	svc := service.NewPasswordService(
		session.NewMemoryStore(),
		strength.NewEvaluator(strength.NewZxcvbnScorer("passgen", "password", "generator")),
		service.Options{GenerateDelay: cfg.GenerateDelay, HistoryLimit: cfg.HistoryLimit},
	)

	m, err := tui.New(ctx, svc)
	if err != nil {
		return err
	}

	finalModel, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if fm, ok := finalModel.(tui.Model); ok {
		return fm.Close(ctx)
	}
	return nil
}
