package cmd

import (
	"github.com/spf13/cobra"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex source dest",
	Short: "Copy one index into another (both must exist)",
	Args:  cobra.ExactArgs(2),
	RunE:  runReindex,
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	return printStatuses([]docstore.OpStatus{mgr.Reindex(cmd.Context(), args[0], args[1])})
}
