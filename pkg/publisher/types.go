// Package publisher defines how pull requests are opened on a hosting service.
package publisher

import (
	"context"
	"time"
)

// PullRequest contains everything needed to open a pull request.
type PullRequest struct {
	// OrganizationURL is the hosting organization (e.g., "https://dev.azure.com/acme").
	OrganizationURL string

	// Project is the project containing the repository.
	Project string

	// Repository is the repository name.
	Repository string

	// SourceBranch is the branch with the changes.
	SourceBranch string

	// TargetBranch is the branch the changes are merged into.
	TargetBranch string

	// Title is the pull request title.
	Title string

	// Description is the Markdown pull request body.
	Description string

	// ExtraArgs are appended verbatim to the provider's command line.
	ExtraArgs []string
}

// PublishAction represents a single action taken during publishing.
type PublishAction struct {
	// Type is the kind of action performed
	// Examples: "created_pull_request", "printed_command"
	Type string `json:"type"`

	// Description provides human-readable details about the action
	Description string `json:"description"`

	// Metadata contains additional action-specific information
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PublishResult contains the outcome of a publish operation.
type PublishResult struct {
	// Provider is the name of the publisher that handled this request
	Provider string `json:"provider"`

	// Target identifies the repository the pull request was opened on
	Target string `json:"target"`

	// DryRun is true when nothing was executed
	DryRun bool `json:"dry_run"`

	// Command is the assembled command line, one token per element
	Command []string `json:"command,omitempty"`

	// PublishedAt is the timestamp when publishing completed
	PublishedAt time.Time `json:"published_at"`

	// Actions is a list of actions taken during publishing
	Actions []PublishAction `json:"actions"`

	// Success indicates whether the overall publish operation succeeded
	Success bool `json:"success"`
}

// Publisher opens pull requests on an external system.
type Publisher interface {
	// Name returns the provider name (e.g., "azure-devops").
	Name() string

	// Validate checks if the request is valid for this publisher.
	Validate(req PullRequest) error

	// Publish opens the pull request, or only describes it when dryRun is set.
	Publish(ctx context.Context, req PullRequest, dryRun bool) (PublishResult, error)
}
