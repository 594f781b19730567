package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthub/agenthub/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialog graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the responder graph and its transitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(graph.GenerateMermaid())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
