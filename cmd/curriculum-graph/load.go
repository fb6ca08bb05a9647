// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-graph/internal/loader"
	"github.com/pdiddy/curriculum-graph/internal/syllabus"
)

var loadCmd = &cobra.Command{
	Use:   "load <file|dir>...",
	Short: "Load syllabus YAML files into the graph",
	Long: `Load reads syllabus YAML files (directories contribute their *.yaml and
*.yml files), declares the schema, upserts every resource, week, and
concept, and then infers prerequisites for the resources loaded.

Records with malformed keys are reported and skipped; the command exits
non-zero if any were skipped. Loading the same files again changes nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) (err error) {
	syllabi, err := syllabus.LoadPaths(args)
	if err != nil {
		return err
	}
	if len(syllabi) == 0 {
		return fmt.Errorf("no syllabus files found in %v", args)
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	summary, err := loader.New(store, cfg.Load, log, cmd.OutOrStdout()).Load(ctx, syllabi)
	if err != nil {
		return err
	}
	if summary.Failed() {
		return fmt.Errorf("%d record(s) skipped", len(summary.Errors))
	}
	return nil
}

func init() {
	loadCmd.Flags().Int("concurrency", 1, "syllabi upserted in parallel (neo4j and memory backends)")
	loadCmd.Flags().Bool("skip-inference", false, "do not infer PREREQUISITE_OF edges")
	mustBind("load.concurrency", loadCmd.Flags().Lookup("concurrency"))
	mustBind("load.skip_inference", loadCmd.Flags().Lookup("skip-inference"))

	rootCmd.AddCommand(loadCmd)
}
