package extract

import (
	"bytes"
	"context"
	"encoding/json"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// altDump is the subset of metadata both alternative tools report. Lux
// prints an array of these per URL, you-get a single object.
type altDump struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

// altMetadata queries whichever alternative tools are installed for
// whatever metadata they can still produce. Used after every primary-tool
// pass has come back empty.
func (e *Extractor) altMetadata(ctx context.Context, url string) (*models.RawVideoInfo, bool) {
	queries := []struct {
		tool string
		flag string
	}{
		{consts.ToolLux, command.LuxJSON},
		{consts.ToolYouGet, command.YouGetJSON},
	}

	for _, q := range queries {
		path, err := e.gate.Find(q.tool)
		if err != nil {
			continue
		}

		res, err := e.runCmd(ctx, path, []string{q.flag, url}, consts.DefaultToolTimeout)
		if err != nil || !res.Success() {
			logging.D(1, "%s metadata query failed for %q", q.tool, url)
			continue
		}

		if raw, site, ok := parseAltDump(res.Stdout); ok {
			logging.I("Metadata recovered with %s (site: %s) for %q", q.tool, site, url)
			return raw, true
		}
	}
	return nil, false
}

// parseAltDump accepts a single JSON object or an array of them and keeps
// the first entry carrying a title.
func parseAltDump(out []byte) (*models.RawVideoInfo, string, bool) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, "", false
	}

	var entries []altDump
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, "", false
		}
	} else {
		var one altDump
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, "", false
		}
		entries = append(entries, one)
	}

	for _, d := range entries {
		if d.Title != "" {
			return &models.RawVideoInfo{Title: d.Title}, d.Site, true
		}
	}
	return nil, "", false
}
