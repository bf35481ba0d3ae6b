// Package build verifies that the project installs and builds locally.
package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/holon-run/blacky/pkg/log"
	"github.com/holon-run/blacky/pkg/runner"
)

// BuildScript is the package script run after install.
const BuildScript = "build:all"

var (
	// ErrInstallFailed is returned when dependency installation fails.
	ErrInstallFailed = errors.New("installation step failed")

	// ErrBuildFailed is returned when the build script fails.
	ErrBuildFailed = errors.New("build step failed")
)

// Steps returns the commands Verify runs, in order.
func Steps(packageManager, dir string) []runner.Command {
	return []runner.Command{
		{Dir: dir, Name: packageManager, Args: []string{"install"}},
		{Dir: dir, Name: packageManager, Args: []string{"run", BuildScript}},
	}
}

// Verify installs dependencies and runs the build script in dir.
// It stops at the first failing step; installed state is not rolled back.
func Verify(ctx context.Context, r runner.Runner, packageManager, dir string) error {
	checkLockfile(packageManager, dir)
	steps := Steps(packageManager, dir)

	if err := r.Run(ctx, steps[0]); err != nil {
		return fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}

	if err := r.Run(ctx, steps[1]); err != nil {
		return fmt.Errorf("%w (no PR is created while the project does not build locally): %v", ErrBuildFailed, err)
	}

	log.Info("local build completed successfully")
	return nil
}

// checkLockfile warns when the lockfiles in dir belong to another package manager.
func checkLockfile(packageManager, dir string) {
	detected := DetectPackageManager(dir)
	if detected.PackageManager == "" {
		return
	}
	configured := strings.TrimSuffix(filepath.Base(packageManager), filepath.Ext(packageManager))
	if configured != detected.PackageManager {
		log.Warn("configured package manager does not match the lockfile",
			"configured", packageManager, "detected", detected.PackageManager, "lockfiles", strings.Join(detected.Signals, ", "))
	}
}
