package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthub/agenthub"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agenthub",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agenthub version %s\n", strings.TrimSpace(agenthub.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
