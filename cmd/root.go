package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "yamdb - reviews and ratings of titled works",
	Long: `yamdb serves a REST API for a catalog of titles grouped into categories
and genres, with user reviews, review comments and averaged ratings.

Configuration is read from a .env file and overridden by environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "Path to the env config file")
}

// env bundles what every command needs.
type env struct {
	config *utils.Config
	logger *zap.Logger
	db     database.PgxIface
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
	_ = e.logger.Sync()
}

// bootstrap loads config, builds the logger and connects to the database.
func bootstrap(ctx context.Context) (*env, error) {
	config, err := utils.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using default production logger.", err)
		logger, _ = zap.NewProduction()
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.String("name", config.Database.Name))

	return &env{config: config, logger: logger, db: db}, nil
}
