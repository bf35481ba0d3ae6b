// Package git wraps the system git binary for the read-only queries blacky
// needs: the current branch, the origin remote and the working tree status.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrNoBranch is returned when HEAD is detached or the branch cannot be determined.
	ErrNoBranch = errors.New("could not determine current git branch")

	// ErrNotRepository is returned together with ErrNoBranch outside a repository.
	ErrNotRepository = errors.New("not inside a git repository")
)

// Client represents a git client for operations on a repository.
type Client struct {
	// Dir is the working directory of the git repository.
	Dir string

	// Binary is the git executable (default: "git").
	Binary string
}

// NewClient creates a new git client for the given directory.
func NewClient(dir string) *Client {
	return &Client{Dir: dir, Binary: "git"}
}

// FileStatus represents the status of a single file in the working tree.
type FileStatus struct {
	// Path is the file path relative to the repository root.
	Path string

	// Status is the human-readable status (e.g., "modified", "added", "deleted").
	Status string

	// StatusCode is the raw two-character status code from git status.
	StatusCode string
}

// execCommand runs git in c.Dir and returns its stdout.
// stderr is folded into the returned error.
func (c *Client) execCommand(ctx context.Context, args ...string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "git"
	}

	cmdArgs := []string{"-C", c.Dir}
	cmdArgs = append(cmdArgs, args...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, cmdArgs...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return output, nil
}

// IsRepo checks if the directory is a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.execCommand(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the name of the checked out branch.
// Every failure matches ErrNoBranch; outside a repository it also matches
// ErrNotRepository.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	if !c.IsRepo(ctx) {
		return "", fmt.Errorf("%w: %w (%s)", ErrNoBranch, ErrNotRepository, c.Dir)
	}

	output, err := c.execCommand(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoBranch, err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("%w: HEAD is detached", ErrNoBranch)
	}
	return branch, nil
}

// RemoteURL returns the URL of the origin remote.
func (c *Client) RemoteURL(ctx context.Context) (string, error) {
	output, err := c.execCommand(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetWorkingTreeStatus returns file-level status information about the working tree.
// It parses git status --porcelain output.
func (c *Client) GetWorkingTreeStatus(ctx context.Context) ([]FileStatus, error) {
	output, err := c.execCommand(ctx, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get working tree status: %w", err)
	}

	return parseFileStatus(string(output)), nil
}

// parseFileStatus parses git status --porcelain output into FileStatus entries.
// Each line is two status characters, a space, then the path.
func parseFileStatus(output string) []FileStatus {
	var statuses []FileStatus

	for _, line := range strings.Split(output, "\n") {
		// Leading spaces are part of the status code.
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || len(line) < 4 {
			continue
		}

		statusCode := line[0:2]
		filePath := line[3:]

		// Renamed/copied entries read "old -> new"; the new name is canonical.
		if parts := strings.SplitN(filePath, " -> ", 2); len(parts) == 2 {
			filePath = parts[1]
		}

		statuses = append(statuses, FileStatus{
			Path:       unquotePath(filePath),
			Status:     decodeSimpleStatusCode(statusCode),
			StatusCode: statusCode,
		})
	}

	return statuses
}

// unquotePath undoes git's C-style quoting of paths with special characters.
func unquotePath(p string) string {
	if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
		if unquoted, err := strconv.Unquote(p); err == nil {
			return unquoted
		}
	}
	return p
}

// decodeSimpleStatusCode converts simple porcelain status to human-readable string.
func decodeSimpleStatusCode(code string) string {
	switch code {
	case " M":
		return "modified (worktree)"
	case "M ":
		return "modified (index)"
	case "MM":
		return "modified (both)"
	case "A ":
		return "added (index)"
	case "AM":
		return "added (index), modified (worktree)"
	case " D":
		return "deleted (worktree)"
	case "D ":
		return "deleted (index)"
	case "R ":
		return "renamed (index)"
	case "C ":
		return "copied (index)"
	case "??":
		return "untracked"
	case "UU":
		return "both modified"
	default:
		return fmt.Sprintf("unknown_%s", strings.TrimSpace(code))
	}
}
