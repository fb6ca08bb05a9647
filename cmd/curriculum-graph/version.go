package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of curriculum-graph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "curriculum-graph %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
