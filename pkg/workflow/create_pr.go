// Package workflow runs the create-pr pipeline: configuration, branch, title,
// description, change type, changeset, local build and pull request.
// Each stage runs once, in order; the first failure ends the run.
package workflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/holon-run/blacky/pkg/build"
	"github.com/holon-run/blacky/pkg/changeset"
	"github.com/holon-run/blacky/pkg/config"
	"github.com/holon-run/blacky/pkg/git"
	"github.com/holon-run/blacky/pkg/log"
	"github.com/holon-run/blacky/pkg/publisher"
	"github.com/holon-run/blacky/pkg/runner"
	"github.com/holon-run/blacky/pkg/title"
)

// Repository is the git view the pipeline needs.
type Repository interface {
	CurrentBranch(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context) (string, error)
	GetWorkingTreeStatus(ctx context.Context) ([]git.FileStatus, error)
}

// Prompter collects the operator's answers.
type Prompter interface {
	Description(question string) (string, error)
	ChangeType() (changeset.Kind, error)
}

// PublisherFactory builds the publisher once the working directory is known.
type PublisherFactory func(dir string, r runner.Runner, out io.Writer) publisher.Publisher

// CreatePR holds the inputs and collaborators of one run.
type CreatePR struct {
	// Dir is the project root.
	Dir string

	// ConfigPath is the configuration file; empty means Dir/blacky.conf.json.
	ConfigPath string

	DryRun    bool
	ExtraArgs []string

	Repo         Repository
	Runner       runner.Runner
	Prompter     Prompter
	NewPublisher PublisherFactory

	// Out receives banners and the final summary.
	Out io.Writer
}

// Run executes the pipeline and returns the publish result.
func (w *CreatePR) Run(ctx context.Context) (publisher.PublishResult, error) {
	w.section("Configuration")
	cfg, err := w.loadConfig()
	if err != nil {
		return publisher.PublishResult{}, err
	}

	w.section("Git")
	branch, err := w.Repo.CurrentBranch(ctx)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("without a current branch no PR can be created: %w", err)
	}
	log.Info("current branch", "branch", branch)
	if remote, err := w.Repo.RemoteURL(ctx); err != nil {
		log.Warn("could not determine remote URL for 'origin', proceeding without it", "error", err)
	} else {
		log.Info("origin remote", "url", remote)
	}

	prTitle, source := title.Derive(branch, cfg.PRTitleRegex)
	log.Info("suggested PR title", "title", prTitle, "source", string(source))

	w.section("PR Description")
	description, err := w.Prompter.Description("Please provide a PR description in Markdown.")
	if err != nil {
		return publisher.PublishResult{}, err
	}
	if description == "" {
		log.Warn("you did not provide a description, the PR will be a bit terse")
	}

	w.section("Change Type")
	kind, err := w.Prompter.ChangeType()
	if err != nil {
		return publisher.PublishResult{}, err
	}

	w.section("Changeset")
	writer := &changeset.Writer{
		Dir:            w.Dir,
		PackageManager: cfg.PackageManager,
		Prefix:         cfg.ProjectPackagePrefix,
		Runner:         w.Runner,
		Status:         w.Repo,
	}
	if _, err := writer.Write(ctx, kind, description); err != nil {
		return publisher.PublishResult{}, fmt.Errorf("could not create a valid changeset, no PR without a changeset: %w", err)
	}

	w.section("Local Build")
	if err := build.Verify(ctx, w.Runner, cfg.PackageManager, w.Dir); err != nil {
		return publisher.PublishResult{}, err
	}

	w.section("Azure DevOps PR")
	pub := w.NewPublisher(w.Dir, w.Runner, w.Out)
	req := publisher.PullRequest{
		OrganizationURL: cfg.Azure.OrganizationURL,
		Project:         cfg.Azure.Project,
		Repository:      cfg.Azure.Repository,
		SourceBranch:    branch,
		TargetBranch:    cfg.TargetBranch,
		Title:           prTitle,
		Description:     description,
		ExtraArgs:       w.ExtraArgs,
	}
	result, err := pub.Publish(ctx, req, w.DryRun)
	if err != nil {
		return result, err
	}

	publisher.WriteSummary(w.Out, result)
	return result, nil
}

func (w *CreatePR) loadConfig() (*config.Config, error) {
	if w.ConfigPath != "" {
		return config.LoadFile(w.ConfigPath)
	}
	return config.Load(w.Dir)
}

// section prints a banner separating the pipeline stages.
func (w *CreatePR) section(name string) {
	width := len(name) + 4
	if width < 10 {
		width = 10
	}
	line := strings.Repeat("-", width)
	fmt.Fprintf(w.Out, "\n%s\n%s\n%s\n", line, name, line)
}
