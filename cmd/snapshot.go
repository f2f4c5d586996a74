package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	snapshotRepo     string
	snapshotLocation string
	snapshotIndices  string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot administration over a filesystem-backed repository",
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Start a snapshot (name generated when omitted); poll status to observe progress",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotCreate,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore name",
	Short: "Start restoring a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotRestore,
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status name",
	Short: "Show the state of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotStatus,
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&snapshotRepo, "repo", "elastictools-backups", "snapshot repository name")
	snapshotCmd.PersistentFlags().StringVar(&snapshotLocation, "location", "backups", "filesystem location inside path.repo")
	snapshotCmd.PersistentFlags().StringVar(&snapshotIndices, "indices", "", "comma-separated indices (default: all)")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
}

func snapshotIndexList() []string {
	if snapshotIndices == "" {
		return nil
	}
	return strings.Split(snapshotIndices, ",")
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if err := mgr.EnsureSnapshotRepo(cmd.Context(), snapshotRepo, snapshotLocation); err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	name, err = mgr.Snapshot(cmd.Context(), snapshotRepo, name, snapshotIndexList())
	if err != nil {
		return err
	}
	fmt.Printf("snapshot %s started in repo %s\n", name, snapshotRepo)
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	if err := mgr.Restore(cmd.Context(), snapshotRepo, args[0], snapshotIndexList()); err != nil {
		return err
	}
	fmt.Printf("restore of %s started from repo %s\n", args[0], snapshotRepo)
	return nil
}

func runSnapshotStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	status, err := mgr.SnapshotStatus(cmd.Context(), snapshotRepo, args[0])
	if err != nil {
		return err
	}
	return printJSON(status)
}
