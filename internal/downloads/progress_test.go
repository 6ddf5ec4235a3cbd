package downloads

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseLineProgressWithFragments(t *testing.T) {
	t.Parallel()

	p, ok := ParseLine("[download]  12.5% of ~ 310.04MiB at  374.36KiB/s ETA 11:59 (frag 56/454)")
	if !ok {
		t.Fatal("expected a progress event")
	}
	if p.Percent != 12.5 {
		t.Fatalf("percent %v, want 12.5", p.Percent)
	}
	if !strings.Contains(p.Status, "frag 56/454") || !strings.Contains(p.Status, "ETA 11:59") {
		t.Fatalf("status missing detail: %q", p.Status)
	}
}

func TestParseLineProgressPlain(t *testing.T) {
	t.Parallel()

	p, ok := ParseLine("[download]  99.0% of 10.00MiB at 1.00MiB/s")
	if !ok {
		t.Fatal("expected a progress event")
	}
	if p.Percent != 99.0 {
		t.Fatalf("percent %v, want 99", p.Percent)
	}
	if strings.Contains(p.Status, "ETA") {
		t.Fatalf("no ETA in source line, but status has one: %q", p.Status)
	}
}

func TestParseLineDestination(t *testing.T) {
	t.Parallel()

	p, ok := ParseLine("[download] Destination: /tmp/out/Some Very Long Video Title.mp4")
	if !ok {
		t.Fatal("expected an event")
	}
	if p.Percent != 0 {
		t.Fatalf("destination lines start at 0%%, got %v", p.Percent)
	}
	if strings.Contains(p.Status, "/tmp/out/") {
		t.Fatalf("status should carry the bare filename, got %q", p.Status)
	}
}

func TestParseLineDestinationMultibyteTitle(t *testing.T) {
	t.Parallel()

	name := strings.Repeat("動", 60) + ".mp4"
	p, ok := ParseLine("[download] Destination: /tmp/out/" + name)
	if !ok {
		t.Fatal("expected an event")
	}
	if !utf8.ValidString(p.Status) {
		t.Fatalf("truncation split a character: %q", p.Status)
	}
	title := strings.TrimPrefix(p.Status, "Starting: ")
	if got := utf8.RuneCountInString(title); got > 50 {
		t.Fatalf("expected at most 50 runes, got %d", got)
	}
}

func TestLastLineMultibyte(t *testing.T) {
	t.Parallel()

	long := "ERROR: " + strings.Repeat("é", 200)
	got := lastLine("first line\n" + long + "\n\n")
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a character: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 100 {
		t.Fatalf("expected a 100-rune cap, got %d", n)
	}

	if got := lastLine("short"); got != "short" {
		t.Fatalf("short lines pass through, got %q", got)
	}
}

func TestParseLineMergeAndAlready(t *testing.T) {
	t.Parallel()

	p, ok := ParseLine("[Merger] Merging formats into \"out.mp4\"")
	if !ok || p.Percent != 99.0 {
		t.Fatalf("merge line should report 99%%, got %+v ok=%v", p, ok)
	}

	p, ok = ParseLine("[download] /tmp/out/video.mp4 has already been downloaded")
	if !ok || p.Percent != 100.0 {
		t.Fatalf("already-downloaded line should report 100%%, got %+v ok=%v", p, ok)
	}
}

func TestParseLineStripsAnsiCodes(t *testing.T) {
	t.Parallel()

	p, ok := ParseLine("\x1b[0;32m[download]  50.0% of 10.00MiB at 1.00MiB/s\x1b[0m")
	if !ok || p.Percent != 50.0 {
		t.Fatalf("ANSI-wrapped line not parsed: %+v ok=%v", p, ok)
	}
}

func TestParseLineIgnoresNoise(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"[youtube] abc123: Downloading webpage",
		"WARNING: unable to extract channel id",
	} {
		if _, ok := ParseLine(line); ok {
			t.Fatalf("line %q should not produce an event", line)
		}
	}
}

func TestTrackerPersistsAtWholePercentSteps(t *testing.T) {
	t.Parallel()

	var persisted []float64
	tr := &tracker{
		persist: func(p float64) { persisted = append(persisted, p) },
	}

	tr.line("[download]   0.5% of 10.00MiB at 1.00MiB/s")
	tr.line("[download]   1.5% of 10.00MiB at 1.00MiB/s")
	tr.line("[download]   1.8% of 10.00MiB at 1.00MiB/s")
	tr.line("[download]  50.0% of 10.00MiB at 1.00MiB/s")

	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted steps, got %v", persisted)
	}
	if persisted[0] != 1.5 || persisted[1] != 50.0 {
		t.Fatalf("unexpected persisted values %v", persisted)
	}
}
