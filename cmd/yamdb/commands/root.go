// Package commands implements the yamdb command line: serve, migrate and
// create-admin.
package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"yamdb/internal/config"
	"yamdb/internal/database"
)

var (
	// Global flags
	verbose bool
	envFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "YaMDb - reviews and ratings for titles",
	Long: `YaMDb is a JSON API where users browse categories, genres and titles,
post scored reviews (1..10) and comment on reviews.

Configuration is read from the environment (APP_*, POSTGRES_*, VALKEY_*,
SESSION_TTL, RATE_LIMIT, TITLE_CACHE_TTL). Variables in --env-file are
loaded first and never override the real environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		setupLogger()
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// loadEnvFile loads path into the process environment. A missing file is
// not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setupLogger installs the default slog logger: JSON in production, text
// otherwise.
func setupLogger() {
	level := slog.LevelInfo
	if verbose || os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if os.Getenv("APP_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openDB loads the configuration and connects to PostgreSQL.
func openDB() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
