package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/botornot/cmd/cli/attempts"
	"github.com/myrjola/botornot/cmd/cli/puzzles"
	"github.com/myrjola/botornot/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(puzzles.Group)
	rootCmd.AddCommand(puzzles.Validate)
	rootCmd.AddCommand(puzzles.Sample)
	rootCmd.AddCommand(puzzles.Route)
	rootCmd.AddGroup(attempts.Group)
	rootCmd.AddCommand(attempts.Prune)
}

var rootCmd = &cobra.Command{
	Use:           "botornot-cli",
	Long:          `Command line utilities for the BotOrNot puzzle service`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
