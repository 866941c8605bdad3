package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/extractor"
	"fulfillment/internal/adapters/out/redis/countscache"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the fulfillment CLI: serve, migrate and token.
func NewRootCommand() *cobra.Command {
	var (
		envFile string
		cfg     Config
	)

	root := &cobra.Command{
		Use:           "fulfillment",
		Short:         "Order fulfillment workflow service",
		Long:          "Role-gated order approval, warehouse release and driver dispatch with administrative overrides.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = LoadConfig(envFile)
			return err
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		newServeCommand(&cfg),
		newMigrateCommand(&cfg),
		newTokenCommand(&cfg),
	)
	return root
}

func newServeCommand(cfg *Config) *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the board refresh job",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *cfg, migrate)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "migrate the schema before serving")
	return c
}

func runServe(ctx context.Context, cfg Config, migrate bool) error {
	if err := cfg.requireJWTSecret(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := OpenDB(cfg)
	if err != nil {
		return err
	}
	if migrate {
		if err = Migrate(ctx, db); err != nil {
			return err
		}
	}

	boardStore, closeStore, err := openBoardStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	root := NewCompositionRoot(cfg, db, boardStore, newExtractor(cfg, logger), logger)

	e, err := httpapi.NewEcho(httpapi.NewServer(root.HTTPHandlers(), logger), []byte(cfg.JWTSecret))
	if err != nil {
		return err
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server forced to shut down: %w", err)
	}
	return nil
}

func newMigrateCommand(cfg *Config) *cobra.Command {
	var createDB bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			if createDB {
				if err := CreateDatabaseIfNotExists(c.Context(), *cfg); err != nil {
					return err
				}
			}
			db, err := OpenDB(*cfg)
			if err != nil {
				return err
			}
			if err = Migrate(c.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
	c.Flags().BoolVar(&createDB, "create-db", false, "create the database first if it does not exist")
	return c
}

func newTokenCommand(cfg *Config) *cobra.Command {
	var (
		id, name, role string
		admin          bool
		ttl            time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an actor",
		Example: "  fulfillment token --id u-17 --name \"Mona Adel\" --role finance\n" +
			"  fulfillment token --id root --role warehouse --admin --ttl 1h",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := cfg.requireJWTSecret(); err != nil {
				return err
			}
			r, err := kernel.ParseRole(role)
			if err != nil {
				return err
			}
			actor, err := kernel.NewActor(id, name, r, admin)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			token, err := httpapi.IssueToken([]byte(cfg.JWTSecret), actor, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().StringVar(&id, "id", "", "actor id (token subject)")
	c.Flags().StringVar(&name, "name", "", "display name recorded in the audit trail")
	c.Flags().StringVar(&role, "role", "", "sales, assistant, finance, warehouse, driver_supervisor or truck_driver")
	c.Flags().BoolVar(&admin, "admin", false, "grant administrative overrides")
	c.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default TOKEN_TTL)")
	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("role")
	return c
}

func newLogger(cfg Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

func openBoardStore(ctx context.Context, cfg Config) (ports.BoardStore, func(), error) {
	if cfg.RedisAddr == "" {
		return countscache.NewMemoryStore(), func() {}, nil
	}
	store, err := countscache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.BoardCacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func newExtractor(cfg Config, logger *slog.Logger) ports.DraftExtractor {
	if cfg.ExtractorEndpoint == "" {
		logger.Info("Draft extraction disabled: EXTRACTOR_ENDPOINT is not set")
		return extractor.Disabled{}
	}
	return extractor.New(cfg.ExtractorEndpoint, cfg.ExtractorAPIKey, cfg.ExtractorCatalog, cfg.ExtractorTimeout)
}
