// Package extract fetches and parses video metadata through an external
// extraction tool, walking a ladder of player-client strategies until one
// succeeds.
package extract

import (
	"context"
	"fmt"
	"time"

	"grabarr/internal/command/execute"
	"grabarr/internal/diagnose"
	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/formats"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/tools"
	"grabarr/internal/utils/logging"
)

// Backend selection for the primary tool.
const (
	ModeAuto   = "auto"
	ModeBinary = "binary"
	ModeModule = "module"
)

// Options configures a metadata fetch.
type Options struct {
	Proxy          string
	CookiesBrowser bool
	CookiePath     string
	Mode           string
}

// strategy is one attempt configuration. Cookie-capable clients are tried
// with cookies when the caller configured any; the ios client rejects
// cookies outright so its pass never sends them.
type strategy struct {
	client     string
	useCookies bool
}

// Extractor fetches metadata. Construct with New; the zero value is not
// usable.
type Extractor struct {
	gate *tools.Gate

	runCmd func(ctx context.Context, prog string, args []string, timeout time.Duration) (*execute.Result, error)

	// titleProbe, when set, is consulted after every strategy has failed
	// to salvage at least a page title for the error report.
	titleProbe func(ctx context.Context, url string) (string, error)
}

func New(gate *tools.Gate) *Extractor {
	return &Extractor{
		gate:   gate,
		runCmd: execute.RunOutput,
	}
}

// WithTitleProbe installs a last-resort page title lookup used to enrich
// total-failure errors.
func (e *Extractor) WithTitleProbe(probe func(ctx context.Context, url string) (string, error)) *Extractor {
	e.titleProbe = probe
	return e
}

// VideoInfo fetches metadata for a single video and shapes it for display:
// quality menu, clock-format duration and any detected content restriction.
func (e *Extractor) VideoInfo(ctx context.Context, url string, opts Options) (*models.VideoInfo, error) {
	raw, payload, err := e.fetch(ctx, url, opts)
	if err != nil {
		return nil, err
	}

	restriction := detectRestriction(payload)
	if restriction.Type != models.RestrictionNone {
		logging.W("Content restriction detected for %q: %s", url, restriction.Message)
	}

	return &models.VideoInfo{
		ID:          raw.ID,
		Title:       raw.Title,
		Uploader:    raw.Uploader,
		Duration:    formatClock(raw.Duration),
		Thumbnail:   raw.Thumbnail,
		UploadDate:  raw.UploadDate,
		Formats:     formats.BuildQualityOptions(raw.Formats),
		Restriction: restriction,
	}, nil
}

// Raw fetches metadata without display shaping.
func (e *Extractor) Raw(ctx context.Context, url string, opts Options) (*models.RawVideoInfo, error) {
	raw, _, err := e.fetch(ctx, url, opts)
	return raw, err
}

func (e *Extractor) fetch(ctx context.Context, url string, opts Options) (*models.RawVideoInfo, *metadataPayload, error) {
	if err := parsing.ValidateURL(url); err != nil {
		return nil, nil, &models.ClassifiedError{
			Code:    models.ErrCodeInvalidURL,
			Message: "that does not look like a downloadable video URL",
			Err:     err,
		}
	}

	invs, err := e.backends(ctx, opts.Mode, url)
	if err != nil {
		return nil, nil, err
	}

	var lastStderr string
	for i, inv := range invs {
		if i > 0 {
			logging.I("Retrying metadata fetch with the %s backend", inv.name)
		}
		for _, s := range strategies(url) {
			args := append(inv.args[:len(inv.args):len(inv.args)], infoArgs(s, opts, url)...)

			res, err := e.runCmd(ctx, inv.prog, args, consts.DefaultToolTimeout)
			if err != nil {
				lastStderr = err.Error()
				logging.D(1, "Metadata strategy %q errored: %v", s.client, err)
				continue
			}
			if !res.Success() {
				lastStderr = string(res.Stderr)
				logging.D(1, "Metadata strategy %q exited %d", s.client, res.ExitCode)
				continue
			}

			logging.D(1, "Metadata fetched with client %q (cookies: %v)", s.client, s.useCookies)
			payload, perr := parsePayload(res.Stdout)
			if perr != nil {
				return nil, nil, perr
			}
			return payload.rawInfo(), payload, nil
		}
	}

	// Alternative tools can sometimes still name the video when the
	// primary tool is being refused outright.
	if raw, ok := e.altMetadata(ctx, url); ok {
		return raw, nil, nil
	}

	return nil, nil, e.totalFailure(ctx, url, opts.Proxy, lastStderr)
}

// totalFailure classifies the final stderr and, when possible, salvages the
// page title so the caller still learns what the URL pointed at.
func (e *Extractor) totalFailure(ctx context.Context, url, proxy, stderr string) error {
	cerr := diagnose.Classified(stderr, proxy, fmt.Errorf("metadata fetch failed for %q", url))
	if e.titleProbe != nil {
		if title, err := e.titleProbe(ctx, url); err == nil && title != "" {
			cerr.Message = fmt.Sprintf("%s (page title: %q)", cerr.Message, title)
		}
	}
	return cerr
}

// invocation is one runnable backend: the program plus its fixed leading
// arguments.
type invocation struct {
	name string
	prog string
	args []string
}

// backends returns the backend invocations to try, in order. Pinned modes
// return exactly one. Auto mode orders by target: restricted sources lead
// with the Python module and everything else leads with the standalone
// binary, with the other backend appended when installed so a failing
// first pass gets one retry on the alternative.
func (e *Extractor) backends(ctx context.Context, mode, url string) ([]invocation, error) {
	if mode == "" {
		mode = ModeAuto
	}

	switch mode {
	case ModeBinary:
		path, err := e.gate.Require(consts.ToolYtDlp)
		if err != nil {
			return nil, err
		}
		return []invocation{{name: "binary", prog: path}}, nil

	case ModeModule:
		if _, ok := e.gate.ModuleAvailable(ctx); !ok {
			return nil, &models.ClassifiedError{
				Code:    models.ErrCodeToolNotFound,
				Message: "the yt_dlp Python module is not importable",
				Advice:  "Install with: python3 -m pip install -U yt-dlp",
			}
		}
		return []invocation{moduleInvocation()}, nil

	default:
		var binary, module invocation
		if path, err := e.gate.Find(consts.ToolYtDlp); err == nil {
			binary = invocation{name: "binary", prog: path}
		}
		if _, ok := e.gate.ModuleAvailable(ctx); ok {
			module = moduleInvocation()
		}

		order := []invocation{binary, module}
		if parsing.IsRestrictedSource(url) {
			order = []invocation{module, binary}
		}

		invs := make([]invocation, 0, 2)
		for _, inv := range order {
			if inv.prog != "" {
				invs = append(invs, inv)
			}
		}
		if len(invs) == 0 {
			_, err := e.gate.Require(consts.ToolYtDlp)
			return nil, err
		}
		logging.D(1, "Metadata backend order: %s first", invs[0].name)
		return invs, nil
	}
}

func moduleInvocation() invocation {
	return invocation{name: "module", prog: "python3", args: []string{"-m", "yt_dlp"}}
}

// strategies returns the attempt ladder for a URL. Restricted sources get
// the multi-client passes that defeat streaming protections; everything
// else goes straight to the plain web client.
func strategies(url string) []strategy {
	var out []strategy
	if parsing.IsRestrictedSource(url) {
		out = append(out,
			strategy{client: "web,web_safari,ios", useCookies: false},
			strategy{client: "web,web_safari", useCookies: true},
		)
	}
	return append(out, strategy{client: "web", useCookies: true})
}

// infoArgs builds the per-strategy argument list for a metadata dump.
func infoArgs(s strategy, opts Options, url string) []string {
	args := []string{
		command.DumpJSON,
		command.NoPlaylist,
		command.NoWarnings,
		command.SocketTimeout, "15",
		command.Retries, "2",
		command.UserAgent, command.DefaultUA,
		command.ExtractorArgs, fmt.Sprintf(command.PlayerClientFmt, s.client),
	}

	if s.useCookies {
		// An explicit cookie file wins over browser extraction.
		if opts.CookiePath != "" {
			args = append(args, command.CookiePath, opts.CookiePath)
		} else if opts.CookiesBrowser {
			args = append(args, command.CookiesFromBrowser, command.BrowserChrome)
		}
	}

	if opts.Proxy != "" {
		args = append(args, command.Proxy, opts.Proxy)
	}

	return append(args, url)
}
