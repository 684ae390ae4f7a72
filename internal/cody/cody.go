package cody

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPath is the executable name resolved via PATH when no explicit path
// is configured.
const DefaultPath = "cody"

// ExitError reports a review command that ran but exited non-zero. Code is
// propagated as the process exit code by the caller.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("cody exited with code %d", e.Code)
}

// Invoker runs the cody CLI. Path may point at a specific binary; it defaults
// to "cody" on PATH. The subprocess inherits the process environment, which
// is how SRC_ENDPOINT and SRC_ACCESS_TOKEN reach cody.
type Invoker struct {
	Path string
}

// New returns an Invoker for the given binary path, or the default when path
// is empty.
func New(path string) Invoker {
	if path == "" {
		path = DefaultPath
	}
	return Invoker{Path: path}
}

// Review asks cody for a review of prompt in the context of contextRepo
// (host/owner/repo). It blocks until the command finishes, with no timeout,
// and returns stdout with surrounding whitespace trimmed.
//
// Arguments are passed as a discrete list, never through a shell.
func (inv Invoker) Review(ctx context.Context, contextRepo, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, inv.Path, "chat", "--context-repo", contextRepo, "-m", prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", &ExitError{
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("command %q was not found, ensure cody is installed and on PATH: %w", inv.Path, err)
	}
	return "", fmt.Errorf("running %s: %w", inv.Path, err)
}
