package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

// setupTestRepo creates a temporary git repository with one commit on branch "main".
func setupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	tmpDir := t.TempDir()
	runGit(t, tmpDir, "init")
	runGit(t, tmpDir, "config", "user.name", "Test User")
	runGit(t, tmpDir, "config", "user.email", "test@example.com")
	runGit(t, tmpDir, "symbolic-ref", "HEAD", "refs/heads/main")

	testFile := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(testFile, []byte("test readme"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	runGit(t, tmpDir, "add", "README.md")
	runGit(t, tmpDir, "commit", "-m", "initial commit")

	return tmpDir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v, output: %s", args, err, string(out))
	}
	return string(out)
}

func TestCurrentBranch(t *testing.T) {
	dir := setupTestRepo(t)
	runGit(t, dir, "checkout", "-b", "feature/add-login")

	branch, err := NewClient(dir).CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error: %v", err)
	}
	if branch != "feature/add-login" {
		t.Errorf("CurrentBranch() = %q, want %q", branch, "feature/add-login")
	}
}

func TestCurrentBranch_DetachedHead(t *testing.T) {
	dir := setupTestRepo(t)
	runGit(t, dir, "checkout", "--detach")

	_, err := NewClient(dir).CurrentBranch(context.Background())
	if !errors.Is(err, ErrNoBranch) {
		t.Fatalf("expected ErrNoBranch, got %v", err)
	}
	if errors.Is(err, ErrNotRepository) {
		t.Errorf("detached HEAD reported as missing repository: %v", err)
	}
}

func TestIsRepo(t *testing.T) {
	dir := setupTestRepo(t)
	if !NewClient(dir).IsRepo(context.Background()) {
		t.Errorf("IsRepo(%s) = false, want true", dir)
	}
}

func TestCurrentBranch_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()

	client := NewClient(dir)
	if client.IsRepo(context.Background()) {
		t.Skip("temp dir is inside a git repository")
	}
	_, err := client.CurrentBranch(context.Background())
	if !errors.Is(err, ErrNoBranch) {
		t.Fatalf("expected ErrNoBranch, got %v", err)
	}
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestRemoteURL(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClient(dir)

	if _, err := client.RemoteURL(context.Background()); err == nil {
		t.Error("RemoteURL() should fail without an origin remote")
	}

	runGit(t, dir, "remote", "add", "origin", "https://dev.azure.com/acme/Platform/_git/web")
	url, err := client.RemoteURL(context.Background())
	if err != nil {
		t.Fatalf("RemoteURL() error: %v", err)
	}
	if url != "https://dev.azure.com/acme/Platform/_git/web" {
		t.Errorf("RemoteURL() = %q", url)
	}
}

func TestGetWorkingTreeStatus(t *testing.T) {
	dir := setupTestRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "pkgs", "web"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pkgs", "web", "index.ts"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	statuses, err := NewClient(dir).GetWorkingTreeStatus(context.Background())
	if err != nil {
		t.Fatalf("GetWorkingTreeStatus() error: %v", err)
	}

	got := map[string]string{}
	for _, s := range statuses {
		got[s.Path] = s.StatusCode
	}
	want := map[string]string{
		"README.md": " M",
		"pkgs/":     "??",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
}

func TestParseFileStatus(t *testing.T) {
	output := " M packages/web/src/x.ts\n" +
		"M  packages/web/src/y.ts\n" +
		"R  old/name.ts -> packages/api/name.ts\n" +
		"?? \"packages/docs/with space.md\"\n" +
		"\n"

	got := parseFileStatus(output)
	want := []FileStatus{
		{Path: "packages/web/src/x.ts", Status: "modified (worktree)", StatusCode: " M"},
		{Path: "packages/web/src/y.ts", Status: "modified (index)", StatusCode: "M "},
		{Path: "packages/api/name.ts", Status: "renamed (index)", StatusCode: "R "},
		{Path: "packages/docs/with space.md", Status: "untracked", StatusCode: "??"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFileStatus() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestDecodeSimpleStatusCode_Unknown(t *testing.T) {
	if got := decodeSimpleStatusCode("XY"); got != "unknown_XY" {
		t.Errorf("decodeSimpleStatusCode(XY) = %q", got)
	}
}
