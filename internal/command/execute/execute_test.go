package execute

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunOutputCapturesBothStreams(t *testing.T) {
	t.Parallel()

	res, err := RunOutput(context.Background(), "/bin/sh",
		[]string{"-c", "echo out; echo err >&2"}, 5*time.Second)
	if err != nil {
		t.Fatalf("RunOutput: %v", err)
	}
	if !res.Success() {
		t.Fatalf("exit code %d", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "out" {
		t.Fatalf("stdout = %q", got)
	}
	if got := strings.TrimSpace(string(res.Stderr)); got != "err" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestRunOutputNonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	res, err := RunOutput(context.Background(), "/bin/sh",
		[]string{"-c", "echo doomed >&2; exit 3"}, 5*time.Second)
	if err != nil {
		t.Fatalf("non-zero exit should not error at this layer: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(string(res.Stderr), "doomed") {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}

func TestRunOutputTimeoutKillsChild(t *testing.T) {
	t.Parallel()

	start := time.Now()
	_, err := RunOutput(context.Background(), "/bin/sh",
		[]string{"-c", "sleep 30"}, 300*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout did not kill the child promptly")
	}
}

func TestRunOutputSpawnFailure(t *testing.T) {
	t.Parallel()

	_, err := RunOutput(context.Background(), "definitely-not-a-real-tool-xyz", nil, time.Second)
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("want ErrToolNotFound, got %v", err)
	}
}

func TestRunStreamingLineOrder(t *testing.T) {
	t.Parallel()

	var lines []string
	res, err := RunStreaming(context.Background(), "/bin/sh",
		[]string{"-c", "echo one; echo two; echo three"}, 5*time.Second, nil,
		func(line string) { lines = append(lines, line) })
	if err != nil {
		t.Fatalf("RunStreaming: %v", err)
	}
	if !res.Success() {
		t.Fatalf("exit code %d", res.ExitCode)
	}
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunStreamingEnvOverride(t *testing.T) {
	t.Parallel()

	var got string
	_, err := RunStreaming(context.Background(), "/bin/sh",
		[]string{"-c", "echo $PROBE_VAL"}, 5*time.Second,
		[]string{"PROBE_VAL=hello"},
		func(line string) { got = line })
	if err != nil {
		t.Fatalf("RunStreaming: %v", err)
	}
	if got != "hello" {
		t.Fatalf("env did not reach the child, got %q", got)
	}
}

func TestRunLargeOutputNoDeadlock(t *testing.T) {
	t.Parallel()

	// Both pipes produce well past the OS pipe buffer size; concurrent
	// drains must prevent the child from blocking.
	res, err := RunOutput(context.Background(), "/bin/sh",
		[]string{"-c", "i=0; while [ $i -lt 5000 ]; do echo line$i; echo err$i >&2; i=$((i+1)); done"},
		30*time.Second)
	if err != nil {
		t.Fatalf("RunOutput: %v", err)
	}
	if !strings.Contains(string(res.Stdout), "line4999") {
		t.Fatal("stdout truncated")
	}
	if !strings.Contains(string(res.Stderr), "err4999") {
		t.Fatal("stderr truncated")
	}
}
