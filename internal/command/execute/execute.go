// Package execute runs external tools with bounded execution time and
// fully drained output pipes.
package execute

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"grabarr/internal/utils/logging"
)

var (
	// ErrTimeout marks a run killed by the wall-clock timeout.
	ErrTimeout = errors.New("tool execution timed out")

	// ErrToolNotFound marks a failure to spawn the program at all.
	ErrToolNotFound = errors.New("tool not found")
)

// Result holds the outcome of a completed tool run. A non-zero ExitCode is
// not an error at this layer; callers classify stderr themselves.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the tool exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// RunOutput runs a program and captures both output streams in full.
// Stdout and stderr are read concurrently so neither pipe can fill its OS
// buffer and deadlock the child. On timeout the child's process group is
// killed and ErrTimeout is returned.
func RunOutput(ctx context.Context, prog string, args []string, timeout time.Duration) (*Result, error) {
	return run(ctx, prog, args, timeout, nil, nil)
}

// RunStreaming runs a program, invoking onLine for every stdout line in
// order, synchronously, as it is produced. Stderr is buffered in full for
// diagnostics at completion; the returned Result carries it alongside an
// empty Stdout.
func RunStreaming(ctx context.Context, prog string, args []string, timeout time.Duration, env []string, onLine func(string)) (*Result, error) {
	return run(ctx, prog, args, timeout, env, onLine)
}

func run(ctx context.Context, prog string, args []string, timeout time.Duration, env []string, onLine func(string)) (*Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, prog, args...)
	if len(env) != 0 {
		cmd.Env = env
	}

	// Process group, so a kill reaches spawned children (e.g. ffmpeg).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe error: %w", err)
	}

	logging.D(2, "Running command: %s", cmd.String())

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrToolNotFound, prog)
		}
		return nil, fmt.Errorf("failed to start %q: %w", prog, err)
	}

	var (
		wg        sync.WaitGroup
		outBuf    bytes.Buffer
		errBuf    bytes.Buffer
		streamErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if onLine == nil {
			_, streamErr = io.Copy(&outBuf, stdout)
			return
		}
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			onLine(scanner.Text())
		}
		streamErr = scanner.Err()
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&errBuf, stderr)
	}()

	// Join readers before consuming the exit status; Wait closes the pipes.
	wg.Wait()
	waitErr := cmd.Wait()

	if runCtx.Err() != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("%w after %v: %q", ErrTimeout, timeout, prog)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &Result{
		Stdout: outBuf.Bytes(),
		Stderr: errBuf.Bytes(),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("wait error for %q: %w", prog, waitErr)
		}
	}

	if streamErr != nil {
		logging.D(1, "Output read error for %q: %v", prog, streamErr)
	}

	return res, nil
}
