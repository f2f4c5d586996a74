package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/kafka"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Kafka consumer (index document events). Deploy separately from api.",
	RunE:  runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.KafkaBrokers) == 0 || len(cfg.KafkaTopics) == 0 {
		return fmt.Errorf("worker requires KAFKA_BROKERS and KAFKA_TOPICS")
	}

	ds, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if err := ds.StartTest(cmd.Context()); err != nil {
		return fmt.Errorf("cluster unavailable: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker starting",
		zap.String("group", cfg.KafkaGroupID),
		zap.Strings("topics", cfg.KafkaTopics),
	)
	kafka.RunConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopics, mgr, ds, logger)
	logger.Info("worker done")
	return nil
}
