package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [quiz]",
	Short: "Check a quiz definition for consistency",
	Long:  `Parses the quiz and reports structural problems: dangling transitions, duplicate ids, unknown operators, unreachable nodes.`,
	Run: func(cmd *cobra.Command, args []string) {
		quiz, err := loadQuiz(cmd, args)
		if err != nil {
			fmt.Println("Validation failed:")
			for _, diag := range schema.Diagnostics(err) {
				fmt.Printf("  - %v\n", diag)
			}
			os.Exit(1)
		}
		fmt.Printf("Quiz %q is valid (%d nodes).\n", quiz.ID, len(quiz.Nodes))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
