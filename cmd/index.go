package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index administration: create, delete, mappings, post",
}

var indexCreateCmd = &cobra.Command{
	Use:   "create [model ...]",
	Short: "Create indices with their mappings (default: all doctypes)",
	RunE:  runIndexCreate,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete model [model ...]",
	Short: "Delete the indices for the given doctypes",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndexDelete,
}

var indexMappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Print the mappings of every index",
	RunE:  runIndexMappings,
}

var indexPostCmd = &cobra.Command{
	Use:   "post model id file.json",
	Short: "Post a raw JSON document by id",
	Args:  cobra.ExactArgs(3),
	RunE:  runIndexPost,
}

func init() {
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexDeleteCmd)
	indexCmd.AddCommand(indexMappingsCmd)
	indexCmd.AddCommand(indexPostCmd)
}

func runIndexCreate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}

	mappings := docstore.Mappings()
	models := args
	if len(models) == 0 {
		for model := range mappings {
			models = append(models, model)
		}
	}
	defs := make([]docstore.IndexDef, 0, len(models))
	for _, model := range models {
		mapping, ok := mappings[model]
		if !ok {
			return fmt.Errorf("unknown model %q", model)
		}
		defs = append(defs, docstore.IndexDef{Model: model, Mapping: mapping})
	}
	return printStatuses(mgr.CreateIndices(cmd.Context(), defs))
}

func runIndexDelete(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	return printStatuses(mgr.DeleteIndices(cmd.Context(), args))
}

func runIndexMappings(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	_, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	mappings, err := mgr.GetMappings(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(mappings)
}

func runIndexPost(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	ds, mgr, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	model, id, path := args[0], args[1], args[2]
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(doc) {
		return fmt.Errorf("%s is not valid JSON", path)
	}
	if err := mgr.PostJSON(cmd.Context(), ds.IndexName(model), id, doc); err != nil {
		return err
	}
	fmt.Println(ds.DocURL(model, id))
	return nil
}

// printStatuses reports each step; failed steps do not abort the batch but
// the exit code reflects them.
func printStatuses(statuses []docstore.OpStatus) error {
	failed := 0
	for _, s := range statuses {
		mark := "ok"
		if !s.OK {
			mark = "FAILED"
			failed++
		}
		fmt.Printf("%-8s %-8s %-32s %s\n", mark, s.Action, s.Index, s.Detail)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(statuses))
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
