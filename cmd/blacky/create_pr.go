package main

import (
	"fmt"
	"io"
	"os"

	"github.com/holon-run/blacky/pkg/git"
	"github.com/holon-run/blacky/pkg/prompt"
	"github.com/holon-run/blacky/pkg/publisher"
	"github.com/holon-run/blacky/pkg/publisher/azurepr"
	"github.com/holon-run/blacky/pkg/runner"
	"github.com/holon-run/blacky/pkg/workflow"
	"github.com/spf13/cobra"
)

var dryRun bool

var createPRCmd = &cobra.Command{
	Use:   "create-pr [-- <extra az arguments>...]",
	Short: "Create a changeset, verify the build and open an Azure DevOps PR",
	Long: `Create a changeset, verify the build and open an Azure DevOps PR.

Arguments after "--" are appended verbatim to "az repos pr create", e.g.

  blacky create-pr -- --draft --work-items 1234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		w := &workflow.CreatePR{
			Dir:        cwd,
			ConfigPath: configPath,
			DryRun:     dryRun,
			ExtraArgs:  args,
			Repo:       git.NewClient(cwd),
			Runner:     runner.NewExecRunner(),
			Prompter:   prompt.New(os.Stdin, os.Stdout),
			NewPublisher: func(dir string, r runner.Runner, out io.Writer) publisher.Publisher {
				return azurepr.New(dir, r, out)
			},
			Out: os.Stdout,
		}

		_, err = w.Run(cmd.Context())
		return err
	},
}

func init() {
	createPRCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the az command instead of creating the PR")
	rootCmd.AddCommand(createPRCmd)
}
