// Package runner executes external commands with the operator's terminal attached.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/kballard/go-shellquote"

	"github.com/holon-run/blacky/pkg/log"
)

// Command is a single external command invocation.
type Command struct {
	// Dir is the working directory; empty means the current directory.
	Dir string

	// Name is the executable.
	Name string

	// Args are passed as distinct tokens, without shell interpretation.
	Args []string
}

// Argv returns the full argument vector including the executable.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command in shell-quoted form for display only.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Runner runs commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes that inherit the given streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner wired to the process's own stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts cmd and waits for it. A nonzero exit is returned as an error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	log.Info("running command", "command", cmd.String(), "dir", cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", cmd.String(), err)
	}
	return nil
}

// Recorder is a Runner that records commands instead of executing them.
// RunFunc, when set, decides the outcome of each call.
type Recorder struct {
	RunFunc func(ctx context.Context, cmd Command) error

	mu    sync.Mutex
	calls []Command
}

// Run records cmd and delegates to RunFunc.
func (r *Recorder) Run(ctx context.Context, cmd Command) error {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	r.mu.Unlock()

	if r.RunFunc != nil {
		return r.RunFunc(ctx, cmd)
	}
	return nil
}

// Calls returns the recorded commands in order.
func (r *Recorder) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.calls...)
}

// Reset forgets all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
