// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print node and edge counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg.Store, log)
		if err != nil {
			return err
		}
		defer closeStore(store, &err)

		snap, err := store.Snapshot(ctx)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return printCounts(cmd.OutOrStdout(), snap.Counts(), jsonOutput)
	},
}

func printCounts(w io.Writer, c graph.Counts, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	for _, l := range []graph.Label{graph.LabelResource, graph.LabelWeek, graph.LabelConcept} {
		fmt.Fprintf(w, "%-16s %d\n", l, c.Nodes[l])
	}
	rels := []graph.RelType{graph.RelHasWeek, graph.RelTeaches, graph.RelPrerequisiteOf}
	var other []graph.RelType
	for t := range c.Edges {
		if t != graph.RelHasWeek && t != graph.RelTeaches && t != graph.RelPrerequisiteOf {
			other = append(other, t)
		}
	}
	sort.Slice(other, func(i, j int) bool { return other[i] < other[j] })
	for _, t := range append(rels, other...) {
		fmt.Fprintf(w, "%-16s %d\n", t, c.Edges[t])
	}
	return nil
}

func init() {
	statsCmd.Flags().Bool("json", false, "output counts as JSON")

	rootCmd.AddCommand(statsCmd)
}
