package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"yamdb/internal/cache"
	"yamdb/internal/database"
	"yamdb/internal/handlers"
	"yamdb/internal/middleware"
	"yamdb/internal/router"
	"yamdb/internal/session"
	"yamdb/internal/store"
)

// serveCmd runs the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Connect to PostgreSQL and Valkey, apply pending migrations and serve
the API until SIGINT or SIGTERM, then drain in-flight requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Valkey holds bearer-token sessions and the title cache.
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	sessions := session.NewStore(valkeyClient, cfg.SessionTTL)
	titleCache := cache.NewTitleCache(valkeyClient, cfg.TitleCacheTTL)

	// Initialize data stores.
	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	genres := store.NewGenreStore(db)
	titles := store.NewTitleStore(db)
	reviews := store.NewReviewStore(db)
	comments := store.NewCommentStore(db)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(sessions, limiter,
		handlers.NewAuth(users, sessions),
		handlers.NewCatalog(categories, genres, titleCache),
		handlers.NewTitles(titles, categories, genres, titleCache),
		handlers.NewReviews(titles, reviews, comments, titleCache),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
