package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the executable is not in $PATH.
var ErrNotFound = errors.New("command not found")

// Executor runs external commands and returns what they print on stdout.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
	ExecuteWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)
}

// OSExecutor runs commands on the local host. Stderr is kept apart from stdout and only
// reported as part of the error, so callers can parse stdout as structured output.
type OSExecutor struct{}

func (e *OSExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "%s", name)
		}

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrapf(err, "%s %s: %s", name, strings.Join(args, " "), msg)
		}

		return nil, errors.Wrapf(err, "%s %s", name, strings.Join(args, " "))
	}

	return out, nil
}

func (e *OSExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout <= 0 {
		return e.Execute(ctx, name, args...)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return e.Execute(ctx, name, args...)
}
