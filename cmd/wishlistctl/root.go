package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/pkg/database"
	pkgconfig "github.com/utafrali/wishlist/pkg/config"
	"github.com/utafrali/wishlist/pkg/logger"
)

var (
	// Global flags
	dbURL   string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wishlistctl",
	Short: "Maintenance tool for the wishlist service database",
	Long: `wishlistctl runs maintenance tasks against the wishlist database.

The connection settings are read from the same environment variables as the
service (DATABASE_URL or the POSTGRES_* parts) unless --db is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// openPool loads the service configuration and connects to its database.
func openPool(ctx context.Context) (*pgxpool.Pool, *slog.Logger, error) {
	if err := pkgconfig.LoadDotenv(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New("wishlistctl", level)

	pgCfg := cfg.PostgresConfig()
	if dbURL != "" {
		pgCfg.URL = dbURL
	}
	pool, err := database.NewPostgresPool(ctx, pgCfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pool, log, nil
}
