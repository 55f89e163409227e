package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [quiz]",
	Short: "Run a quiz interactively in the terminal",
	Long:  `Starts the quiz in interactive mode, asking questions node by node until an end node is reached.`,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")
		plain, _ := cmd.Flags().GetBool("plain")

		quiz, err := loadQuiz(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		engine, err := espalier.New(quiz)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		runner := &espalier.Runner{
			Input:    os.Stdin,
			Output:   os.Stdout,
			Headless: headless,
		}
		if !headless && !plain {
			tui.PrintBanner()
			runner.Renderer = tui.NewRenderer()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		state, err := runner.Run(ctx, engine)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if state != nil && state.Completed {
			fmt.Printf("\nCompleted at node %q with %d answers.\n", state.EndNodeID, len(state.Responses))
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, strict IO)")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
}
