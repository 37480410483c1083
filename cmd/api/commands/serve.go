package commands

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

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/expense-tracker/internal/config"
	"github.com/pkordes/expense-tracker/internal/database"
	"github.com/pkordes/expense-tracker/internal/handler"
	"github.com/pkordes/expense-tracker/internal/identity"
	"github.com/pkordes/expense-tracker/internal/service"
)

const shutdownTimeout = 15 * time.Second

type serveOptions struct {
	migrate bool
	banner  bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Pending migrations are applied first unless
--migrate=false is given. SIGINT or SIGTERM trigger a graceful shutdown that
lets in-flight requests finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&opts.banner, "banner", true, "print the startup banner")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.migrate {
		results, err := database.Migrate(ctx, cfg.Store, database.Up)
		if err != nil {
			return err
		}
		for _, r := range results {
			logger.Info("migration applied", "version", r.Version, "source", r.Source)
		}
	}

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("store ready", "backend", cfg.Store.Backend)

	svc := service.NewExpenseService(store.Expenses, service.WithLocation(cfg.ReportLocation))
	router := handler.NewRouter(handler.NewServer(svc, logger), handler.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Identity:     identity.NewResolver(cfg.Identity),
	}, logger)

	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if opts.banner {
		figure.NewColorFigure("Expenses", "puffy", "green", true).Print()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr, "report_timezone", cfg.ReportLocation.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
