// Package azurepr opens Azure DevOps pull requests through the az CLI.
package azurepr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/holon-run/blacky/pkg/log"
	"github.com/holon-run/blacky/pkg/publisher"
	"github.com/holon-run/blacky/pkg/runner"
)

const (
	// ProviderName is the name reported in publish results.
	ProviderName = "azure-devops"

	// DefaultBinary is the Azure CLI executable.
	DefaultBinary = "az"
)

// ErrCreateFailed is returned when the az CLI exits with an error.
var ErrCreateFailed = errors.New("creating the PR with Azure CLI failed")

// Publisher opens pull requests with "az repos pr create".
type Publisher struct {
	// Dir is the working directory of the az invocation.
	Dir string

	// Binary overrides the az executable.
	Binary string

	Runner runner.Runner

	// Out receives the dry-run command.
	Out io.Writer
}

// New creates a Publisher running az in dir.
func New(dir string, r runner.Runner, out io.Writer) *Publisher {
	return &Publisher{Dir: dir, Binary: DefaultBinary, Runner: r, Out: out}
}

// Name returns the provider name.
func (p *Publisher) Name() string {
	return ProviderName
}

// Validate checks that every required field is present.
func (p *Publisher) Validate(req publisher.PullRequest) error {
	fields := []struct{ name, value string }{
		{"organization", req.OrganizationURL},
		{"project", req.Project},
		{"repository", req.Repository},
		{"source branch", req.SourceBranch},
		{"target branch", req.TargetBranch},
		{"title", req.Title},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("pull request is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Command assembles the az invocation for req. An empty description is
// replaced by publisher.DefaultDescription.
func (p *Publisher) Command(req publisher.PullRequest) runner.Command {
	binary := p.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	description := req.Description
	if description == "" {
		description = publisher.DefaultDescription(req.SourceBranch)
	}

	args := []string{
		"repos", "pr", "create",
		"--organization", req.OrganizationURL,
		"--project", req.Project,
		"--repository", req.Repository,
		"--source-branch", req.SourceBranch,
		"--target-branch", req.TargetBranch,
		"--title", req.Title,
		"--description", description,
	}
	args = append(args, req.ExtraArgs...)

	return runner.Command{Dir: p.Dir, Name: binary, Args: args}
}

// Publish runs the az command. With dryRun set the command is only printed
// and the result always reports success.
func (p *Publisher) Publish(ctx context.Context, req publisher.PullRequest, dryRun bool) (publisher.PublishResult, error) {
	cmd := p.Command(req)
	result := publisher.PublishResult{
		Provider: p.Name(),
		Target:   target(req),
		DryRun:   dryRun,
		Command:  cmd.Argv(),
		Actions:  []publisher.PublishAction{},
	}

	if dryRun {
		log.Info("dry-run is enabled: showing what would happen, no PR will be created")
		fmt.Fprintln(p.Out, "Command would be:")
		fmt.Fprintf(p.Out, "  %s\n", cmd.String())

		action := publisher.NewAction("printed_command", "Printed az repos pr create command")
		action.AddMetadata("source_branch", req.SourceBranch)
		action.AddMetadata("target_branch", req.TargetBranch)
		action.AddMetadata("title", req.Title)
		result.Actions = append(result.Actions, action)
		result.PublishedAt = time.Now()
		result.Success = true
		return result, nil
	}

	if err := p.Validate(req); err != nil {
		return result, fmt.Errorf("validation failed: %w", err)
	}

	if err := p.Runner.Run(ctx, cmd); err != nil {
		return result, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}

	action := publisher.NewAction("created_pull_request", fmt.Sprintf("Created pull request %q", req.Title))
	action.AddMetadata("source_branch", req.SourceBranch)
	action.AddMetadata("target_branch", req.TargetBranch)
	result.Actions = append(result.Actions, action)
	result.PublishedAt = time.Now()
	result.Success = true

	log.Info("pull request was created successfully via Azure CLI")
	return result, nil
}

func target(req publisher.PullRequest) string {
	return strings.TrimRight(req.OrganizationURL, "/") + "/" + req.Project + "/_git/" + req.Repository
}
