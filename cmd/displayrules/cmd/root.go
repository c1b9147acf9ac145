package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/displayrules/internal/core/config"
	"github.com/solatis/displayrules/internal/core/db"
	"github.com/solatis/displayrules/internal/core/log"
)

const Version = "0.1.0"

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:          "displayrules",
	Short:        "Display rule evaluation service",
	Long:         `displayrules decides whether a display item (popup, banner, notice) is shown on a page by evaluating its configured display conditions against the page being rendered.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "catalog database URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		fmt.Sprintf("log level (%s)", strings.Join(log.Levels(), ", ")))
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json",
		fmt.Sprintf("log format (%s)", strings.Join(log.Formats(), ", ")))
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// session is the configuration and logger shared by all commands.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadSession loads configuration and applies persistent flags on top.
// Flags only override config and environment when set explicitly.
func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.Database.URL = dbURL
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	logger, err := log.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)

	return &session{cfg: cfg, logger: logger}, nil
}

// openDB opens the configured catalog database.
func (s *session) openDB(ctx context.Context) (*sqlx.DB, error) {
	if s.cfg.Database.URL == "" {
		return nil, fmt.Errorf("--db-url required (or DR_DATABASE_URL)")
	}
	database, err := db.Open(ctx, s.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
