package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/config"
	"github.com/denshoproject/densho-elastictools/internal/docstore"
	logpkg "github.com/denshoproject/densho-elastictools/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "elastictools",
	Short: "Search and index administration for the repository's Elasticsearch cluster",
	RunE:  runAPI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(statusCmd)
}

// bootstrap loads .env + config and builds the logger. Shared by every
// command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logpkg.New(cfg.AppEnv(), cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

// connect builds the docstore façade and manager from config.
func connect(cfg *config.Config, logger *zap.Logger) (*docstore.Docstore, *docstore.Manager, error) {
	client, err := docstore.NewClient(
		cfg.Docstore.Host,
		cfg.Docstore.SSLCertfile,
		cfg.Docstore.Username,
		cfg.Docstore.Password,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("docstore client: %w", err)
	}
	ds := docstore.New(client, cfg.Docstore.IndexPrefix, logger)
	return ds, docstore.NewManager(ds, logger), nil
}
