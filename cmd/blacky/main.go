package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/holon-run/blacky/pkg/config"
	"github.com/holon-run/blacky/pkg/log"
	"github.com/spf13/cobra"
)

var logLevel string
var configPath string

var rootCmd = &cobra.Command{
	Use:   "blacky",
	Short: "blacky prepares and opens Azure DevOps pull requests for changeset monorepos.",
	Long: `blacky turns the current branch into an Azure DevOps pull request.

The create-pr workflow:
  1. loads blacky.conf.json from the current directory
  2. derives the PR title from the branch name via prTitleRegex
  3. asks for a Markdown description and a change type (patch/minor/major)
  4. creates a changeset for every changed package
  5. runs "<packageManager> install" and "<packageManager> run build:all"
  6. opens the PR with "az repos pr create" (or prints the command with --dry-run)

Any failure stops the workflow; no PR is created after a failed build.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return errors.New("no command given")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default: ./"+config.FileName+")")
}

// run executes the CLI and returns the process exit code.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())

		var vErr *config.ValidationError
		if errors.As(err, &vErr) {
			fmt.Fprintf(os.Stderr, "\nExample %s:\n%s\n", config.FileName, config.Example)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
