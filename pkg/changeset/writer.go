package changeset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/holon-run/blacky/pkg/git"
	"github.com/holon-run/blacky/pkg/log"
	"github.com/holon-run/blacky/pkg/runner"
)

// ErrCreateFailed is returned when the package manager cannot scaffold a changeset.
var ErrCreateFailed = errors.New("changeset creation failed")

// StatusLister lists changed files in the working tree.
type StatusLister interface {
	GetWorkingTreeStatus(ctx context.Context) ([]git.FileStatus, error)
}

// Writer scaffolds a changeset with the package manager and fills it in.
type Writer struct {
	// Dir is the project root.
	Dir string

	// PackageManager is the executable providing the "changeset" subcommand.
	PackageManager string

	// Prefix is prepended to package directory names.
	Prefix string

	Runner runner.Runner
	Status StatusLister
}

// Write creates an empty changeset, locates it and overwrites it with the
// changed packages at kind and the description as body. It returns the file path.
// A partially created changeset is left on disk when a later step fails.
func (w *Writer) Write(ctx context.Context, kind Kind, description string) (string, error) {
	create := runner.Command{Dir: w.Dir, Name: w.PackageManager, Args: []string{"changeset", "--empty"}}
	if err := w.Runner.Run(ctx, create); err != nil {
		return "", fmt.Errorf("%w: %s changeset --empty failed (is the changeset CLI installed and available in PATH?): %v", ErrCreateFailed, w.PackageManager, err)
	}

	latest, err := FindLatest(filepath.Join(w.Dir, DirName))
	if err != nil {
		return "", fmt.Errorf("could not find a newly created changeset file (did the command actually create one?): %w", err)
	}
	log.Info("editing changeset file", "path", latest)

	packages := w.changedPackages(ctx)
	if len(packages) == 0 {
		log.Warn("could not find any changed packages with a " + ManifestFile + ", the changeset will be created without explicit package entries")
	}

	content := Render(w.Prefix, kind, packages, description)
	if err := os.WriteFile(latest, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write changeset %s: %w", latest, err)
	}

	log.Info("changeset has been updated", "path", latest, "packages", len(packages), "type", string(kind))
	return latest, nil
}

// changedPackages degrades to an empty set when git status fails.
func (w *Writer) changedPackages(ctx context.Context) []string {
	statuses, err := w.Status.GetWorkingTreeStatus(ctx)
	if err != nil {
		log.Warn("could not execute git status, assuming no changed packages", "error", err)
		return nil
	}

	files := make([]string, 0, len(statuses))
	for _, s := range statuses {
		log.Debug("changed file", "path", s.Path, "status", s.Status)
		files = append(files, s.Path)
	}
	return ChangedPackages(w.Dir, files)
}
