package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/portfolio-backend/internal/config"
	"github.com/deppfellow/portfolio-backend/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Content API for a personal portfolio site",
	Long: `portfolio serves skills, projects, blogs and links as schema-less
JSON documents backed by MongoDB, PostgreSQL or memory.

Configuration comes from PORTFOLIO_* environment variables (a .env file
is loaded automatically) and an optional YAML file.`,
	SilenceUsage: true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

// bootstrap loads the configuration and builds the logger every
// command starts from. The returned LoggerService must be shut down.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg)
	if err != nil {
		return nil, nil, zerolog.Nop(), fmt.Errorf("failed to initialize New Relic: %w", err)
	}

	return cfg, loggerService, logger.NewLoggerWithService(cfg, loggerService), nil
}
