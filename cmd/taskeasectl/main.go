package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taskease/internal/access"
	"taskease/internal/adapter/repo"
	"taskease/internal/infra"
	"taskease/internal/ledger"
)

// env is the shared state every subcommand runs against.
type env struct {
	pool   *pgxpool.Pool
	runner *infra.SQLRunner
	logger zerolog.Logger
	ledger *ledger.Service
	gate   *access.Gate
}

var (
	timeout  time.Duration
	operator string
)

func main() {
	_ = godotenv.Load()

	e := &env{}
	rootCmd := &cobra.Command{
		Use:           "taskeasectl",
		Short:         "Administrative tasks for the TaskEase database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || strings.Contains(cmd.CommandPath(), " completion") {
				return nil
			}
			return e.open(cmd.Context(), cmd.Name())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "deadline for each database operation")
	rootCmd.PersistentFlags().StringVar(&operator, "operator", os.Getenv("USER"), "who is making the change, recorded where supported")

	rootCmd.AddCommand(
		migrateCmd(e),
		grantCmd(e),
		setCreditsCmd(e),
		subscribeCmd(e),
		addAdminCmd(e),
		listUsersCmd(e),
		providerKeyCmd(e),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (e *env) open(ctx context.Context, name string) error {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	e.pool = pool
	e.logger = infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", name).Logger()
	e.runner = infra.NewSQLRunner(pool, e.logger)
	e.ledger = ledger.NewService(repo.NewCreditRepository(e.runner), ledger.Options{Logger: e.logger})
	e.gate = access.NewGate(repo.NewAdminRepository(e.runner), e.logger)
	return nil
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func (e *env) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
