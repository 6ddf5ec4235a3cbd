// Package scraper is the last-resort metadata path: when every extraction
// tool strategy has failed, a plain page visit can still recover the page
// title and og:title so the failure report names what the URL pointed at.
package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// Prober fetches page-level metadata over plain HTTP.
type Prober struct {
	userAgent string
}

func NewProber() *Prober {
	return &Prober{userAgent: command.DefaultUA}
}

// PageTitle visits the URL and returns its best title: og:title when the
// page declares one, the <title> element otherwise.
func (p *Prober) PageTitle(ctx context.Context, urlStr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	collector := colly.NewCollector(
		colly.UserAgent(p.userAgent),
	)
	collector.SetRequestTimeout(consts.PageProbeTimeout)

	var title, ogTitle string

	collector.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})
	collector.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		if ogTitle == "" {
			ogTitle = strings.TrimSpace(e.Attr("content"))
		}
	})

	logging.D(1, "Probing %q for a page title", urlStr)
	if err := collector.Visit(urlStr); err != nil {
		return "", fmt.Errorf("page probe failed for %q: %w", urlStr, err)
	}
	collector.Wait()

	if ogTitle != "" {
		return ogTitle, nil
	}
	if title != "" {
		return title, nil
	}
	return "", fmt.Errorf("no title found at %q", urlStr)
}
