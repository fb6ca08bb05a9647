// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-graph/internal/loader"
)

var inferCmd = &cobra.Command{
	Use:   "infer [resource-id]...",
	Short: "Infer prerequisite edges from week ordering",
	Long: `Infer links every concept of week n to every concept of week n+1 within
each resource with a PREREQUISITE_OF edge (method "inferred"). A missing
week number breaks the chain. With no arguments every resource is visited.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer closeStore(store, &err)

		summary, err := loader.New(store, cfg.Load, log, cmd.OutOrStdout()).Infer(ctx, args...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "resources: %d, prerequisites: %d\n", summary.Resources, summary.Edges)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
}
