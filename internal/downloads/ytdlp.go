package downloads

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/formats"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/utils/logging"
)

// retryablePatterns are stderr fragments worth burning another client
// attempt on. Anything else fails the phase immediately.
var retryablePatterns = []string{
	"HTTP Error 403",
	"Forbidden",
	"SABR",
	"Requested format is not available",
}

const formatUnavailable = "Requested format is not available"

// ytdlpJob is the state of one primary-tool download across its phases.
type ytdlpJob struct {
	o     *Orchestrator
	url   string
	opts  models.DownloadOptions
	path  string
	track *tracker

	restricted bool
	formatSpec string
	lastStderr string
}

// run walks the phase ladder until one attempt succeeds.
//
// Phase 1 throws the multi-client pass at the URL without cookies, which
// defeats most streaming protections on its own. Phase 2 repeats it with
// cookies on the clients that accept them. Phase 3 drops to single legacy
// clients, and phase 4 gives up on video and takes the audio stream, which
// platforms often leave unblocked.
func (j *ytdlpJob) run(ctx context.Context) error {
	cookiesEnabled := j.opts.CookiesConfigured()
	forceAudio := j.opts.Quality == consts.QualityAudio

	if !j.opts.AllowFallback {
		logging.I("Fallback disabled: single attempt (multi-client)")
		j.track.event(models.Progress{Status: "Single attempt: multi-client"})
		return j.attempts(ctx, "no-fallback", j.primaryClients(), cookiesEnabled, forceAudio)
	}

	logging.I("Download strategy: multi-client")
	j.track.event(models.Progress{Status: "Strategy 1: multi-client"})
	if err := j.attempts(ctx, "multi-client", j.primaryClients(), false, forceAudio); err == nil {
		return nil
	}

	if cookiesEnabled {
		logging.I("Download strategy: with cookies")
		j.track.event(models.Progress{Status: "Strategy 2: with cookies"})
		if err := j.attempts(ctx, "cookies", j.cookieClients(), true, forceAudio); err == nil {
			return nil
		}
		logging.W("Authenticated download failed, proceeding to fallbacks")
	}

	logging.I("Download strategy: single client fallback")
	j.track.event(models.Progress{Status: "Strategy 3: single client fallback"})
	if err := j.attempts(ctx, "single-client", j.fallbackClients(), cookiesEnabled, forceAudio); err == nil {
		return nil
	}

	if !forceAudio {
		logging.I("Download strategy: audio-only fallback")
		j.track.event(models.Progress{Status: "Strategy 4: audio-only fallback"})
		if err := j.attempts(ctx, "audio-only", j.audioClients(), cookiesEnabled, true); err == nil {
			return nil
		}
	}

	return fmt.Errorf("download failed after every strategy: %s", lastLine(j.lastStderr))
}

func (j *ytdlpJob) primaryClients() []string {
	if j.restricted {
		return []string{"web,web_safari,ios"}
	}
	return []string{"web"}
}

// cookieClients excludes the ios client, which rejects cookies.
func (j *ytdlpJob) cookieClients() []string {
	if j.restricted {
		return []string{"web,web_safari"}
	}
	return []string{"web"}
}

func (j *ytdlpJob) fallbackClients() []string {
	if j.restricted {
		return []string{"android", "tv", "web"}
	}
	return []string{"web"}
}

func (j *ytdlpJob) audioClients() []string {
	if j.restricted {
		return []string{"web,web_safari", "web"}
	}
	return []string{"web"}
}

// attempts runs one phase: each client in order, advancing only on errors
// the next client has a chance of fixing.
func (j *ytdlpJob) attempts(ctx context.Context, phase string, clients []string, useCookies, forceAudio bool) error {
	var lastStderr string

	for idx, client := range clients {
		j.track.event(models.Progress{
			Status: fmt.Sprintf("client=%s | attempt %d/%d", client, idx+1, len(clients)),
		})

		finish := j.o.startAttempt(ctx, j.url, consts.ToolYtDlp, phase, client, j.opts.Quality, j.track)
		args := j.buildArgs(client, "", useCookies, forceAudio)

		stderr, err := j.runOnce(ctx, args)
		if err == nil {
			finish(consts.DLStatusCompleted, "", "")
			j.track.event(models.Progress{
				Percent: 100.0,
				Status:  fmt.Sprintf("Success: client=%s cookies=%v", client, useCookies),
			})
			return nil
		}

		lastStderr = stderr
		j.lastStderr = stderr
		j.o.reportAttemptFailure(finish, client, stderr, j.track)

		if j.restricted && isRetryable(stderr) && idx < len(clients)-1 {
			logging.I("Retrying with the next client...")
			continue
		}
		break
	}

	// The chosen quality may simply not exist for this video. One retry on
	// the unconstrained best selector rescues those without user action.
	if strings.Contains(lastStderr, formatUnavailable) &&
		j.opts.Quality != consts.QualityBest && !forceAudio {
		j.track.event(models.Progress{Status: "Quality not available, trying best"})

		finish := j.o.startAttempt(ctx, j.url, consts.ToolYtDlp, "best-retry", "web,web_safari", consts.QualityBest, j.track)
		args := j.buildArgs("web,web_safari", "bv*+ba/best", useCookies, false)
		if _, err := j.runOnce(ctx, args); err == nil {
			finish(consts.DLStatusCompleted, "", "")
			j.track.event(models.Progress{Percent: 100.0, Status: "Success at best available quality"})
			return nil
		}
		finish(consts.DLStatusFailed, "format_unavailable", lastLine(lastStderr))
	}

	return fmt.Errorf("phase failed: %s", lastLine(lastStderr))
}

// runOnce executes a single attempt, streaming progress. Returns the full
// stderr text on failure for diagnosis.
func (j *ytdlpJob) runOnce(ctx context.Context, args []string) (string, error) {
	res, err := j.o.runStreaming(ctx, j.path, args, 0, nil, j.track.line)
	if err != nil {
		return err.Error(), err
	}
	if res.Success() {
		return "", nil
	}
	stderr := string(res.Stderr)
	return stderr, fmt.Errorf("tool exited %d", res.ExitCode)
}

// buildArgs assembles the full argument list for one attempt.
func (j *ytdlpJob) buildArgs(client, formatOverride string, useCookies, forceAudio bool) []string {
	spec := j.formatSpec
	if formatOverride != "" {
		spec = formatOverride
	}

	socketTimeout := strconv.Itoa(int(j.opts.Timeout.Seconds()))

	args := []string{
		command.Format, spec,
		command.NoPlaylist,
		command.Newline,
		command.NoUpdate,
		command.SocketTimeout, socketTimeout,
		command.Retries, "5",
		command.FragmentRetries, "50",
		command.FileAccessRetries, "10",
		command.SkipUnavailFrags,
		command.HLSPreferNative,
		command.Paths, j.opts.OutputDir,
		command.Output, command.FilenameSyntax,
		command.NoCheckCerts,
		command.UserAgent, command.DefaultUA,
	}

	if useCookies {
		// An explicit cookie file wins over browser extraction.
		if j.opts.CookiePath != "" {
			args = append(args, command.CookiePath, j.opts.CookiePath)
		} else if j.opts.CookiesBrowser {
			args = append(args, command.CookiesFromBrowser, command.BrowserChrome)
		}
	}

	if j.restricted {
		// IPv6 ranges are commonly throttled by the big CDNs.
		args = append(args,
			command.ForceIPv4,
			command.MergeOutputFormat, command.MergeMP4,
			command.ExtractorArgs, fmt.Sprintf(command.PlayerClientFmt, client),
		)
	}

	if j.opts.Proxy != "" {
		args = append(args, command.Proxy, j.opts.Proxy)
	}

	if j.opts.Quality == consts.QualityAudio || forceAudio {
		args = append(args, command.ExtractAudio, command.AudioFormat, command.AudioMP3)
	}

	return append(args, j.url)
}

func isRetryable(stderr string) bool {
	for _, p := range retryablePatterns {
		if strings.Contains(stderr, p) {
			return true
		}
	}
	return false
}

// lastLine returns the final non-empty line of tool output, capped for
// display.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			return truncate(t, 100)
		}
	}
	return "unknown error"
}

// truncate caps s at max runes, never splitting a multi-byte character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// newYtdlpJob prepares the phase state for a URL.
func newYtdlpJob(o *Orchestrator, url, path string, opts models.DownloadOptions, track *tracker) *ytdlpJob {
	return &ytdlpJob{
		o:          o,
		url:        url,
		opts:       opts,
		path:       path,
		track:      track,
		restricted: parsing.IsRestrictedSource(url),
		formatSpec: formats.Spec(opts.Quality, opts.Codec),
	}
}
