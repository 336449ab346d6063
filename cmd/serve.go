package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studyhall/studyhall/internal/config"
	"github.com/studyhall/studyhall/internal/exercise/generate"
	"github.com/studyhall/studyhall/internal/exercise/grade"
	"github.com/studyhall/studyhall/internal/llm"
	"github.com/studyhall/studyhall/internal/logger"
	"github.com/studyhall/studyhall/internal/server"
	"github.com/studyhall/studyhall/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the exercise engine HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	s, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	// The provider is built lazily on first use and shared across
	// requests. A failed construction is retried by the next caller.
	handle := llm.NewHandle(func(ctx context.Context) (llm.Provider, error) {
		return llm.NewProvider(ctx, cfg.LLM, s.LLMCallRepo(), log)
	})

	generator := generate.New(handle, generate.DefaultConfig())
	grader := grade.NewGrader(grade.NewFreeResponseGrader(handle, grade.DefaultConfig()))
	recorder := store.NewRecorder(s.AttemptRepo(), log)

	srv := server.New(cfg, log, generator, grader, recorder, s.AttemptRepo())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
