package build

import (
	"os"
	"path/filepath"
	"sort"
)

// lockfile ties a lockfile name to the package manager that writes it.
type lockfile struct {
	Name           string
	PackageManager string
	Priority       int // higher wins when several lockfiles exist
}

var lockfiles = []lockfile{
	{Name: "pnpm-lock.yaml", PackageManager: "pnpm", Priority: 40},
	{Name: "bun.lockb", PackageManager: "bun", Priority: 30},
	{Name: "yarn.lock", PackageManager: "yarn", Priority: 20},
	{Name: "package-lock.json", PackageManager: "npm", Priority: 10},
}

// DetectResult is the package manager suggested by the project root.
type DetectResult struct {
	PackageManager string
	// Signals lists every lockfile found, strongest first.
	Signals []string
}

// DetectPackageManager inspects the lockfiles in dir. The result is empty when
// no lockfile exists.
func DetectPackageManager(dir string) DetectResult {
	var found []lockfile
	for _, lf := range lockfiles {
		if info, err := os.Stat(filepath.Join(dir, lf.Name)); err == nil && !info.IsDir() {
			found = append(found, lf)
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Priority > found[j].Priority })

	var result DetectResult
	for _, lf := range found {
		result.Signals = append(result.Signals, lf.Name)
	}
	if len(found) > 0 {
		result.PackageManager = found[0].PackageManager
	}
	return result
}
