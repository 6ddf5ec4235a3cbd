package downloads

import (
	"context"
	"fmt"
	"os"
	"strings"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// runLux downloads with lux. Lux has no format selector comparable to the
// primary tool's; it defaults to the best available stream. It reads its
// proxy from the environment rather than a flag.
func (o *Orchestrator) runLux(ctx context.Context, url, path string, opts models.DownloadOptions, track *tracker) error {
	track.event(models.Progress{Status: "Starting lux download"})

	args := []string{command.LuxOutputDir, opts.OutputDir, url}

	finish := o.startAttempt(ctx, url, consts.ToolLux, "direct", "", opts.Quality, track)
	res, err := o.runStreaming(ctx, path, args, 0, proxyEnv(opts.Proxy), track.line)
	if err != nil {
		finish(consts.DLStatusFailed, "execution_error", err.Error())
		return fmt.Errorf("lux failed: %w", err)
	}
	if !res.Success() {
		stderr := string(res.Stderr)
		reason, advice := interpretLuxFailure(stderr)
		finish(consts.DLStatusFailed, reason, lastLine(stderr))
		return &models.ClassifiedError{
			Code:    models.ErrCodeExecution,
			Message: "lux could not download this video",
			Advice:  advice,
			Detail:  lastLine(stderr),
		}
	}

	finish(consts.DLStatusCompleted, "", "")
	track.event(models.Progress{Percent: 100.0, Status: "Download complete"})
	return nil
}

// interpretLuxFailure maps lux stderr to a reason and advice. A cipher
// decode failure means lux's extractor is out of date for this site; no
// retry with lux will fix that.
func interpretLuxFailure(stderr string) (reason, advice string) {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "cipher") || strings.Contains(lower, "decipher"):
		return "extractor_outdated", "lux cannot decode this site's streams right now. Try yt-dlp instead, or update lux."
	case strings.Contains(lower, "not found") || strings.Contains(lower, "404"):
		return "video_unavailable", "The video may have been removed."
	default:
		return "execution_error", "Try yt-dlp instead; it supports far more sites."
	}
}

// runYouGet downloads with you-get. Also proxy-via-environment.
func (o *Orchestrator) runYouGet(ctx context.Context, url, path string, opts models.DownloadOptions, track *tracker) error {
	track.event(models.Progress{Status: "Starting you-get download"})

	args := []string{command.YouGetOutputDir, opts.OutputDir, command.YouGetNoCaption, url}

	finish := o.startAttempt(ctx, url, consts.ToolYouGet, "direct", "", opts.Quality, track)
	res, err := o.runStreaming(ctx, path, args, 0, proxyEnv(opts.Proxy), track.line)
	if err != nil {
		finish(consts.DLStatusFailed, "execution_error", err.Error())
		return fmt.Errorf("you-get failed: %w", err)
	}
	if !res.Success() {
		stderr := string(res.Stderr)
		finish(consts.DLStatusFailed, "execution_error", lastLine(stderr))
		return &models.ClassifiedError{
			Code:    models.ErrCodeExecution,
			Message: "you-get could not download this video",
			Advice:  "Try yt-dlp instead; it supports far more sites.",
			Detail:  lastLine(stderr),
		}
	}

	finish(consts.DLStatusCompleted, "", "")
	track.event(models.Progress{Percent: 100.0, Status: "Download complete"})
	return nil
}

// proxyEnv builds a child environment that routes flagless tools through
// the proxy. Returns nil (inherit as-is) when no proxy is configured.
func proxyEnv(proxy string) []string {
	if proxy == "" {
		return nil
	}
	logging.D(1, "Passing proxy %q to tool via environment", proxy)
	return append(os.Environ(),
		command.EnvHTTPProxy+"="+proxy,
		command.EnvHTTPSProxy+"="+proxy,
		command.EnvAllProxy+"="+proxy,
	)
}
