// Package regex compiles and caches regex expressions for tool output parsing.
package regex

import (
	"regexp"
)

var (
	AnsiEscape *regexp.Regexp
	Progress   *regexp.Regexp
	Dest       *regexp.Regexp
	Merge      *regexp.Regexp
	Already    *regexp.Regexp
)

// AnsiEscapeCompile compiles regex for ANSI escape codes
func AnsiEscapeCompile() *regexp.Regexp {
	if AnsiEscape == nil {
		AnsiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	}
	return AnsiEscape
}

// ProgressCompile compiles the regex matching yt-dlp download progress lines,
// e.g. "[download]   6.2% of ~ 343.72MiB at  420.30KiB/s ETA 12:32 (frag 29/454)"
func ProgressCompile() *regexp.Regexp {
	if Progress == nil {
		Progress = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%\s+of\s+~?\s*(\d+\.?\d*\s*\w+)\s+at\s+(\d+\.?\d*\s*[\w./]+)(?:\s+ETA\s+(\S+))?(?:\s+\(frag\s+(\d+)/(\d+)\))?`)
	}
	return Progress
}

// DestCompile compiles the regex matching yt-dlp destination lines.
func DestCompile() *regexp.Regexp {
	if Dest == nil {
		Dest = regexp.MustCompile(`\[download\]\s+Destination:\s+(.+)`)
	}
	return Dest
}

// MergeCompile compiles the regex matching ffmpeg merge notices.
func MergeCompile() *regexp.Regexp {
	if Merge == nil {
		Merge = regexp.MustCompile(`\[Merger?\]\s+Merging`)
	}
	return Merge
}

// AlreadyCompile compiles the regex matching already-downloaded notices.
func AlreadyCompile() *regexp.Regexp {
	if Already == nil {
		Already = regexp.MustCompile(`has already been downloaded`)
	}
	return Already
}
