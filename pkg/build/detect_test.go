package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/holon-run/blacky/pkg/log"
	"github.com/holon-run/blacky/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    string
		signals []string
	}{
		{name: "none", files: nil, want: ""},
		{name: "pnpm", files: []string{"pnpm-lock.yaml"}, want: "pnpm", signals: []string{"pnpm-lock.yaml"}},
		{name: "npm", files: []string{"package-lock.json"}, want: "npm", signals: []string{"package-lock.json"}},
		{
			name:    "strongest wins",
			files:   []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml"},
			want:    "pnpm",
			signals: []string{"pnpm-lock.yaml", "yarn.lock", "package-lock.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			got := DetectPackageManager(dir)
			assert.Equal(t, tt.want, got.PackageManager)
			assert.Equal(t, tt.signals, got.Signals)
		})
	}
}

func TestDetectPackageManager_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "yarn.lock"), 0755))

	assert.Empty(t, DetectPackageManager(dir).PackageManager)
}

func TestVerify_WarnsOnLockfileMismatch(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer log.SetLogger(zap.New(core))()

	dir := t.TempDir()
	writeFiles(t, dir, "yarn.lock")

	require.NoError(t, Verify(context.Background(), &runner.Recorder{}, "pnpm", dir))
	assert.Equal(t, 1, logs.FilterMessage("configured package manager does not match the lockfile").Len())

	logs.TakeAll()
	require.NoError(t, Verify(context.Background(), &runner.Recorder{}, "/usr/local/bin/yarn", dir))
	assert.Zero(t, logs.Len())
}
