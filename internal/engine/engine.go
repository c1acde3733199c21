package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"sweeper/internal/config"
)

// ErrTimeout reports that the engine exceeded the configured deadline and was
// killed before producing an exit status.
var ErrTimeout = errors.New("engine timed out")

// Command describes one engine invocation for an Executor.
type Command struct {
	Binary string
	Args   []string
	Dir    string
	Env    []string
	Output io.Writer
}

// Executor abstracts subprocess execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// Option configures the invoker.
type Option func(*Invoker)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(i *Invoker) {
		if exec != nil {
			i.exec = exec
		}
	}
}

// Invoker runs the external normalization engine once per candidate file. The
// engine receives exactly three positional arguments (input path, run token,
// log path) and an environment in which its own module tree resolves. Only
// the integer exit status comes back; stdout and stderr are appended to the
// attempt log so engine tracebacks survive in the audit trail.
type Invoker struct {
	interpreter string
	script      string
	root        string
	timeout     time.Duration
	exec        Executor
}

// New constructs an invoker from the engine configuration.
func New(cfg config.Engine, opts ...Option) (*Invoker, error) {
	if strings.TrimSpace(cfg.Script) == "" {
		return nil, errors.New("engine script required")
	}
	inv := &Invoker{
		interpreter: cfg.Interpreter,
		script:      cfg.Script,
		root:        cfg.Root,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:        commandExecutor{},
	}
	if inv.interpreter == "" {
		inv.interpreter = "python3"
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Invoke runs the engine synchronously and returns its exit status. A nil
// error with a nonzero status is the normal failure path; errors are reserved
// for invocations that never yielded a status (unstartable binary, timeout,
// cancellation).
func (i *Invoker) Invoke(ctx context.Context, filePath, runToken, logPath string) (int, error) {
	runCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return -1, fmt.Errorf("open attempt log for engine output: %w", err)
	}
	defer logFile.Close()

	env := os.Environ()
	if i.root != "" {
		env = append(env, "PYTHONPATH="+i.root)
	}

	status, err := i.exec.Run(runCtx, Command{
		Binary: i.interpreter,
		Args:   []string{i.script, filePath, runToken, logPath},
		Dir:    i.root,
		Env:    env,
		Output: logFile,
	})
	if err != nil {
		if runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return -1, fmt.Errorf("%w after %s", ErrTimeout, i.timeout)
		}
		return -1, fmt.Errorf("run engine: %w", err)
	}
	return status, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, spec Command) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...) //nolint:gosec
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdout = spec.Output
	cmd.Stderr = spec.Output

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
