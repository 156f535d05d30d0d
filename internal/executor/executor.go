package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command when the caller's context has no
// deadline of its own.
const DefaultTimeout = 15 * time.Second

// CommandError describes a command that ran but did not succeed.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner runs an external utility and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// WithTimeout returns a Runner that applies timeout to every command.
func WithTimeout(timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(ctx context.Context, name string, args ...string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return Output(ctx, name, args...)
	}
}

// Output runs name with args and returns its stdout with a leading UTF-8 BOM
// and surrounding whitespace removed.
func Output(ctx context.Context, name string, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	if err := execCmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{
				Command:  name,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		return "", fmt.Errorf("running %s: %w", name, err)
	}

	out := strings.TrimPrefix(stdout.String(), "\xef\xbb\xbf")
	return strings.TrimSpace(out), nil
}
