// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Declare the graph constraints and indexes",
	Long: `Schema declares the uniqueness constraints on resource_id, week_id, and
concept_id and the lookup index on Concept.name. Objects that already exist
are left alone; a same-named object with a different definition is an error.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	summary, err := graph.EnsureSchema(ctx, store)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema: %d created, %d already present\n", summary.Created, summary.Existing)
	return nil
}

// closeStore closes s and reports its error through errp unless an earlier
// error is already set.
func closeStore(s *openedStore, errp *error) {
	if cerr := s.Close(); cerr != nil && *errp == nil {
		*errp = cerr
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
