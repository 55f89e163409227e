package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a branching quiz engine",
	Long:  `Espalier runs questionnaires as conditional graphs: answers decide which node comes next.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("quiz", "q", "quiz.yaml", "Path to the quiz definition (YAML or JSON)")
}

// loadQuiz reads the quiz flag, falling back to the first positional arg.
func loadQuiz(cmd *cobra.Command, args []string) (*domain.Quiz, error) {
	path, _ := cmd.Flags().GetString("quiz")
	if !cmd.Flags().Changed("quiz") && len(args) > 0 {
		path = args[0]
	}
	return file.LoadFile(path)
}
