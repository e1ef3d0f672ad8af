// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Package execute runs external programs without a shell, capturing stdout
// separately from stderr so callers can parse machine output exactly.

// Options describes a single command invocation.
type Options struct {
	Command string
	Args    []string
	Dir     string
	// Stdin is fed to the process when set.
	Stdin io.Reader
	// Env entries are appended to the inherited environment.
	Env []string
	// Retries is the total number of attempts; values below 1 mean one.
	Retries int
	Delay   time.Duration
	Timeout time.Duration
	// Quiet lowers the success log to Debug.
	Quiet bool
}

// Result holds both output streams of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the command and returns its stdout. On failure the returned
// error carries a short summary of stderr.
func Run(ctx context.Context, opts Options) (string, error) {
	res, err := RunResult(ctx, opts)
	return res.Stdout, err
}

// RunResult is Run with access to stderr and the exit code.
func RunResult(ctx context.Context, opts Options) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := otelzap.Ctx(ctx)
	cmdStr := buildCommandString(opts.Command, opts.Args...)

	ctx, span := telemetry.Start(ctx, "execute.Run",
		attribute.String("command", opts.Command),
		attribute.String("args", strings.Join(opts.Args, " ")),
	)
	defer span.End()

	attempts := opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	var stdin []byte
	if opts.Stdin != nil {
		b, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return Result{}, cerr.Wrap(err, "read command stdin")
		}
		stdin = b
	}

	var (
		res Result
		err error
	)
	for i := 1; i <= attempts; i++ {
		res, err = runOnce(ctx, opts, stdin)
		if err == nil {
			if opts.Quiet {
				logger.Debug("Execution succeeded", zap.String("command", cmdStr))
			} else {
				logger.Info("Execution succeeded", zap.String("command", cmdStr))
			}
			return res, nil
		}

		span.RecordError(err)
		logger.Debug("Execution failed",
			zap.Int("attempt", i),
			zap.String("command", cmdStr),
			zap.Int("exit_code", res.ExitCode),
			zap.String("summary", ExtractSummary(res.Stderr)),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
		if i < attempts && opts.Delay > 0 {
			select {
			case <-time.After(opts.Delay):
			case <-ctx.Done():
			}
		}
	}

	return res, cerr.WithHintf(
		cerr.Wrapf(err, "%s failed", cmdStr),
		"%s", ExtractSummary(res.Stderr))
}

func runOnce(parent context.Context, opts Options, stdin []byte) (Result, error) {
	ctx, cancel := context.WithTimeout(parent, defaultTimeout(opts.Timeout))
	defer cancel()

	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), opts.Env...)
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	return res, err
}
