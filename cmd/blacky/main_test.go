package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"blacky": run,
	}))
}

// fakeTools stand in for git, the package manager and the Azure CLI.
// Every invocation is appended to $WORK/<tool>.log.
var fakeTools = map[string]string{
	"git": `#!/bin/sh
echo "$*" >> "$WORK/git.log"
case "$*" in
*"rev-parse --git-dir"*) [ -z "$FAKE_NO_REPO" ] || exit 128; echo .git ;;
*"rev-parse --abbrev-ref HEAD"*) echo "${FAKE_BRANCH:-feature/add-login}" ;;
*"remote get-url origin"*) echo "https://dev.azure.com/acme/Platform/_git/web" ;;
*"status --porcelain"*) printf ' M packages/web/src/login.ts\n?? packages/api/new.ts\n' ;;
*) exit 1 ;;
esac
`,
	"pnpm": `#!/bin/sh
echo "$*" >> "$WORK/pnpm.log"
case "$1" in
changeset) [ -z "$FAIL_CHANGESET" ] || exit 1; printf -- '---\n---\n' > .changeset/happy-pens-glow.md ;;
install) [ -z "$FAIL_INSTALL" ] || exit 1 ;;
run) [ -z "$FAIL_BUILD" ] || exit 1 ;;
esac
`,
	"az": `#!/bin/sh
echo "$*" >> "$WORK/az.log"
[ -z "$FAIL_AZ" ] || exit 1
`,
}

func TestScripts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			bin := filepath.Join(env.WorkDir, ".bin")
			if err := os.MkdirAll(bin, 0o755); err != nil {
				return err
			}
			for name, script := range fakeTools {
				if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755); err != nil {
					return err
				}
			}
			env.Setenv("PATH", bin+string(os.PathListSeparator)+env.Getenv("PATH"))
			return nil
		},
	})
}
