// Package downloads drives video downloads through external tools, walking
// a ladder of player-client and cookie strategies and falling back across
// tools when the chosen one cannot deliver.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"grabarr/internal/command/execute"
	"grabarr/internal/diagnose"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/repo"
	"grabarr/internal/tools"
	"grabarr/internal/utils/logging"
)

// Orchestrator runs downloads. Construct with New.
type Orchestrator struct {
	gate  *tools.Gate
	store *repo.DownloadStore

	runStreaming func(ctx context.Context, prog string, args []string, timeout time.Duration, env []string, onLine func(string)) (*execute.Result, error)
}

func New(gate *tools.Gate) *Orchestrator {
	return &Orchestrator{
		gate:         gate,
		runStreaming: execute.RunStreaming,
	}
}

// WithStore enables download history recording.
func (o *Orchestrator) WithStore(ds *repo.DownloadStore) *Orchestrator {
	o.store = ds
	return o
}

// Download fetches the video at url to opts.OutputDir, emitting progress
// events to onProgress. When the chosen tool fails for a reason another
// tool might not share and fallback is allowed, the remaining installed
// tools are tried in order.
func (o *Orchestrator) Download(ctx context.Context, url string, opts models.DownloadOptions, onProgress models.ProgressFunc) error {
	if err := parsing.ValidateURL(url); err != nil {
		return &models.ClassifiedError{
			Code:    models.ErrCodeInvalidURL,
			Message: "that does not look like a downloadable video URL",
			Err:     err,
		}
	}
	opts.ApplyDefaults()

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", opts.OutputDir, err)
	}

	track := &tracker{emit: onProgress}

	err := o.runTool(ctx, opts.Tool, url, opts, track)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.AllowFallback && !isPermanentFailure(err) {
		for _, name := range tools.Known {
			if name == opts.Tool {
				continue
			}
			if _, ferr := o.gate.Find(name); ferr != nil {
				continue
			}

			logging.W("%s failed, falling back to %s", opts.Tool, name)
			track.event(models.Progress{Status: fmt.Sprintf("Falling back to %s", name)})
			if ferr := o.runTool(ctx, name, url, opts, track); ferr == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}

	return o.classify(err, opts.Proxy)
}

func (o *Orchestrator) runTool(ctx context.Context, tool, url string, opts models.DownloadOptions, track *tracker) error {
	path, err := o.gate.Require(tool)
	if err != nil {
		return err
	}

	switch tool {
	case consts.ToolYtDlp:
		return newYtdlpJob(o, url, path, opts, track).run(ctx)
	case consts.ToolLux:
		return o.runLux(ctx, url, path, opts, track)
	case consts.ToolYouGet:
		return o.runYouGet(ctx, url, path, opts, track)
	default:
		return fmt.Errorf("unknown tool %q", tool)
	}
}

// classify enriches the terminal error with a blocking diagnosis unless the
// error already carries one.
func (o *Orchestrator) classify(err error, proxy string) error {
	var ce *models.ClassifiedError
	if errors.As(err, &ce) {
		return err
	}
	return diagnose.Classified(err.Error(), proxy, err)
}

// isPermanentFailure reports whether the failure would affect every tool:
// DRM, paywalls, and bad URLs stay permanent. A missing tool is not, since
// the fallback chain may find another one installed.
func isPermanentFailure(err error) bool {
	var ce *models.ClassifiedError
	if errors.As(err, &ce) {
		switch ce.Code {
		case models.ErrCodeDrm, models.ErrCodeMembersOnly, models.ErrCodeInvalidURL:
			return true
		}
	}
	if reason, ok := diagnose.Diagnose(err.Error()); ok {
		return reason.IsPermanent()
	}
	return false
}

// startAttempt records the start of one attempt in the history store,
// points live progress persistence at the new row, and returns the
// finisher. With no store configured everything is a no-op.
func (o *Orchestrator) startAttempt(ctx context.Context, url, tool, phase, client, quality string, track *tracker) func(status, reason, errText string) {
	if o.store == nil {
		return func(string, string, string) {}
	}

	rec := &models.DownloadRecord{URL: url, Tool: tool, Phase: phase, Client: client, Quality: quality}
	id, err := o.store.RecordStart(ctx, rec)
	if err != nil {
		logging.D(1, "History insert failed: %v", err)
		return func(string, string, string) {}
	}

	track.lastPersisted = 0
	track.persist = func(percent float64) {
		if err := o.store.UpdateProgress(ctx, id, percent); err != nil {
			logging.D(2, "Progress update failed for row %d: %v", id, err)
		}
	}

	return func(status, reason, errText string) {
		track.persist = nil
		if err := o.store.RecordFinish(ctx, id, status, reason, errText); err != nil {
			logging.D(1, "History update failed for row %d: %v", id, err)
		}
	}
}

// reportAttemptFailure diagnoses one failed attempt, records it, and emits
// a status event naming the blocking reason when one is identifiable.
func (o *Orchestrator) reportAttemptFailure(finish func(status, reason, errText string), client, stderr string, track *tracker) {
	reasonStr := ""
	status := fmt.Sprintf("client=%s failed", client)
	if reason, ok := diagnose.Diagnose(stderr); ok {
		reasonStr = reason.String()
		status = fmt.Sprintf("%s | client=%s", reason.Description(), client)
	}

	logging.E("Attempt failed (client=%s): %s", client, lastLine(stderr))
	finish(consts.DLStatusFailed, reasonStr, lastLine(stderr))
	track.event(models.Progress{Status: status})
}
