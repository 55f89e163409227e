package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [quiz]",
	Short: "Export the quiz graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) representing the quiz's nodes and conditional transitions.`,
	Run: func(cmd *cobra.Command, args []string) {
		quiz, err := loadQuiz(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(quiz, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
