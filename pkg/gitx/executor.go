package gitx

import (
	gocontext "context"
	"bytes"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation. Checkout and log are
// external-process calls; nothing in the core may block indefinitely.
const DefaultTimeout = 60 * time.Second

// CommandExecutor runs git commands. Abstracted so the repository layer
// can be tested without a real working tree.
type CommandExecutor interface {
	// Run executes `git args...` in dir and returns trimmed stdout.
	Run(ctx gocontext.Context, dir string, args ...string) (string, error)
}

// ExecExecutor is the default CommandExecutor backed by os/exec.
type ExecExecutor struct {
	// Timeout applies per invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewExecExecutor creates an ExecExecutor with the default timeout.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Timeout: DefaultTimeout}
}

// Run implements CommandExecutor.
func (e *ExecExecutor) Run(ctx gocontext.Context, dir string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := gocontext.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		op := ""
		if len(args) > 0 {
			op = args[0]
		}
		return "", &GitError{
			Op:     op,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
