package main

import (
	"fmt"
	"strings"

	"github.com/richfrem/quoteagent"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quoteagent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quoteagent version %s\n", strings.TrimSpace(quoteagent.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
