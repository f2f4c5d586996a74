package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cluster health, the configured cluster's name, and index stats",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	ds, _, err := connect(cfg, logger)
	if err != nil {
		return err
	}

	health, err := ds.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("cluster unavailable: %w", err)
	}
	fmt.Printf("host:     %s\n", ds.Host())
	fmt.Printf("cluster:  %s (%s)\n", health.ClusterName, health.Status)
	fmt.Printf("deployed: %s\n", docstore.Cluster(cfg.Docstore.Clusters, cfg.Docstore.Host))
	fmt.Printf("nodes:    %d, shards: %d active / %d unassigned\n",
		health.NumberOfNodes, health.ActiveShards, health.UnassignedShards)

	names, err := ds.IndexNames(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Printf("index:    %s\n", name)
	}
	return nil
}
