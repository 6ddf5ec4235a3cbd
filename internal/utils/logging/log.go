// Package logging provides program-wide leveled logging.
//
// Console output uses the classic colored tag format; when a log file is
// configured, every message is also written as a structured zerolog record.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/regex"

	"github.com/rs/zerolog"
)

var (
	// Level is the active debug verbosity. Messages logged with a level
	// above it are dropped.
	Level int

	mu       sync.Mutex
	fileLog  zerolog.Logger
	loggable bool
)

// SetupLogging creates or opens the log file inside targetDir.
func SetupLogging(targetDir string) error {
	logPath := filepath.Join(targetDir, "grabarr.log")

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", logPath, err)
	}

	mu.Lock()
	defer mu.Unlock()

	fileLog = zerolog.New(f).With().Timestamp().Logger()
	loggable = true
	return nil
}

// I logs an info message.
func I(format string, args ...any) string {
	return emit(consts.BlueInfo, zerolog.InfoLevel, false, format, args...)
}

// S logs a success message.
func S(format string, args ...any) string {
	return emit(consts.GreenSuccess, zerolog.InfoLevel, false, format, args...)
}

// W logs a warning message.
func W(format string, args ...any) string {
	return emit(consts.YellowWarn, zerolog.WarnLevel, false, format, args...)
}

// E logs an error message with caller information.
func E(format string, args ...any) string {
	return emit(consts.RedError, zerolog.ErrorLevel, true, format, args...)
}

// D logs a debug message with caller information if l is within the
// active verbosity level.
func D(l int, format string, args ...any) string {
	if l > Level {
		return ""
	}
	return emit(consts.YellowDebug, zerolog.DebugLevel, true, format, args...)
}

// P prints a plain message with no tag.
func P(format string, args ...any) string {
	return emit("", zerolog.InfoLevel, false, format, args...)
}

func emit(tag string, zl zerolog.Level, withCaller bool, format string, args ...any) string {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	b.Grow(len(tag) + len(format) + len(args)*32)
	b.WriteString(tag)

	if len(args) != 0 {
		fmt.Fprintf(&b, format, args...)
	} else {
		b.WriteString(format)
	}

	if withCaller {
		pc, file, line, _ := runtime.Caller(2)
		funcName := filepath.Base(runtime.FuncForPC(pc).Name())
		b.WriteString(" [")
		b.WriteString(consts.ColorBlue)
		b.WriteString("Function: ")
		b.WriteString(consts.ColorReset)
		b.WriteString(funcName)
		b.WriteString(" - ")
		b.WriteString(consts.ColorBlue)
		b.WriteString("File: ")
		b.WriteString(consts.ColorReset)
		b.WriteString(filepath.Base(file))
		b.WriteString(" : ")
		b.WriteString(consts.ColorBlue)
		b.WriteString("Line: ")
		b.WriteString(consts.ColorReset)
		b.WriteString(strconv.Itoa(line))
		b.WriteString("]")
	}

	b.WriteString("\n")
	msg := b.String()
	fmt.Fprint(os.Stderr, msg)

	if loggable {
		fileLog.WithLevel(zl).Msg(stripAnsiCodes(strings.TrimSuffix(msg, "\n")))
	}
	return msg
}

// stripAnsiCodes removes ANSI escape codes from a string
func stripAnsiCodes(input string) string {
	return regex.AnsiEscapeCompile().ReplaceAllString(input, "")
}
