// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curriculum-graph/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph as YAML or JSON",
	Long: `Export writes every resource with its weeks and concepts, followed by the
prerequisite edges and node and edge counts.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	formatFlag, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	if out != "" {
		if err := export.WriteFile(ctx, store, out, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
		return nil
	}
	doc, err := export.Build(ctx, store)
	if err != nil {
		return err
	}
	return export.Encode(cmd.OutOrStdout(), doc, format)
}

func init() {
	exportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	exportCmd.Flags().String("out", "", "output path (default stdout)")

	rootCmd.AddCommand(exportCmd)
}
