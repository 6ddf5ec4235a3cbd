// Package tools locates external extraction tools on the host and answers
// availability and version queries for them.
package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"grabarr/internal/command/execute"
	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// Known is every tool this program can drive, in preference order.
var Known = []string{consts.ToolYtDlp, consts.ToolLux, consts.ToolYouGet}

// versionArgs maps a tool to the invocation that prints its version.
var versionArgs = map[string][]string{
	consts.ToolYtDlp:  {"--version"},
	consts.ToolLux:    {command.LuxVersionArg},
	consts.ToolYouGet: {"--version"},
}

// Gate resolves tools once and caches their paths for the process lifetime.
// Version queries are live.
type Gate struct {
	paths map[string]string

	runCmd func(ctx context.Context, prog string, args []string, timeout time.Duration) (*execute.Result, error)
	stat   func(path string) (os.FileInfo, error)
	lookup func(name string) (string, error)
}

func NewGate() *Gate {
	return &Gate{
		paths:  make(map[string]string),
		runCmd: execute.RunOutput,
		stat:   os.Stat,
		lookup: exec.LookPath,
	}
}

// Find resolves a tool name to an executable path. Well-known install
// locations are checked before PATH so a Homebrew or system install wins
// over shadowing shims.
func (g *Gate) Find(name string) (string, error) {
	if p, ok := g.paths[name]; ok {
		return p, nil
	}

	for _, dir := range consts.BinSearchPaths {
		candidate := filepath.Join(dir, name)
		if info, err := g.stat(candidate); err == nil && !info.IsDir() {
			g.paths[name] = candidate
			return candidate, nil
		}
	}

	p, err := g.lookup(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q not found in well-known locations or PATH", execute.ErrToolNotFound, name)
	}
	g.paths[name] = p
	return p, nil
}

// Version runs the tool's version query and returns the first output line.
func (g *Gate) Version(ctx context.Context, name string) (string, error) {
	path, err := g.Find(name)
	if err != nil {
		return "", err
	}

	args, ok := versionArgs[name]
	if !ok {
		return "", fmt.Errorf("no version query known for %q", name)
	}

	res, err := g.runCmd(ctx, path, args, consts.VersionCheckTimeout)
	if err != nil {
		return "", fmt.Errorf("version query for %q failed: %w", name, err)
	}

	out := strings.TrimSpace(string(res.Stdout))
	if out == "" {
		// lux and some builds print the version banner on stderr.
		out = strings.TrimSpace(string(res.Stderr))
	}
	if out == "" {
		return "", fmt.Errorf("version query for %q produced no output", name)
	}
	if i := strings.IndexByte(out, '\n'); i > 0 {
		out = out[:i]
	}
	return out, nil
}

// Info surveys a single tool.
func (g *Gate) Info(ctx context.Context, name string) models.ToolInfo {
	info := models.ToolInfo{Name: name}

	path, err := g.Find(name)
	if err != nil {
		logging.D(1, "Tool %q not found: %v", name, err)
		return info
	}
	info.Path = path
	info.IsAvailable = true

	if v, err := g.Version(ctx, name); err == nil {
		info.Version = v
	} else {
		logging.D(1, "Version query for %q failed: %v", name, err)
	}
	return info
}

// Survey reports on every known tool.
func (g *Gate) Survey(ctx context.Context) []models.ToolInfo {
	out := make([]models.ToolInfo, 0, len(Known))
	for _, name := range Known {
		out = append(out, g.Info(ctx, name))
	}
	return out
}

// Require fails with actionable install advice when the tool is missing.
// It is called before any operation that would otherwise fail mid-flight.
func (g *Gate) Require(name string) (string, error) {
	path, err := g.Find(name)
	if err != nil {
		return "", &models.ClassifiedError{
			Code:    models.ErrCodeToolNotFound,
			Message: fmt.Sprintf("%s is not installed or not on PATH", name),
			Advice:  installAdvice(name),
			Err:     err,
		}
	}
	return path, nil
}

func installAdvice(name string) string {
	switch name {
	case consts.ToolYtDlp:
		return "Install with: brew install yt-dlp, pipx install yt-dlp, or python3 -m pip install -U yt-dlp"
	case consts.ToolLux:
		return "Install with: brew install lux, or download a release from github.com/iawia002/lux"
	case consts.ToolYouGet:
		return "Install with: brew install you-get, or python3 -m pip install you-get"
	default:
		return "Install the tool and ensure it is on PATH"
	}
}

// ModuleAvailable reports whether the yt_dlp Python module is importable,
// which enables the `python3 -m yt_dlp` backend when the binary is absent
// or stale.
func (g *Gate) ModuleAvailable(ctx context.Context) (string, bool) {
	res, err := g.runCmd(ctx, "python3", []string{"-m", "yt_dlp", "--version"}, consts.VersionCheckTimeout)
	if err != nil || !res.Success() {
		return "", false
	}
	v := strings.TrimSpace(string(res.Stdout))
	if v == "" {
		return "", false
	}
	return v, true
}
