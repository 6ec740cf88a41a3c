// Package scrape fetches web pages and converts them to markdown for
// downstream extraction.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent is sent when no user agent is configured. Some
// publisher sites refuse requests without a browser-like UA.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Content is the result of fetching a single page.
type Content struct {
	URL        string
	HTML       string
	Markdown   string
	StatusCode int
	FetchedAt  time.Time
}

// Fetcher retrieves page content over HTTP.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewFetcher creates a page fetcher. Zero timeout defaults to 30s.
func NewFetcher(userAgent string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
	}
}

// Fetch retrieves the page at url and converts its HTML to markdown.
// The markdown form is what gets handed to the extraction model; it
// strips markup noise while keeping the visible text and structure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Content, error) {
	var result Content

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.timeout)
	c.Context = ctx

	c.OnResponse(func(r *colly.Response) {
		result = Content{
			URL:        r.Request.URL.String(),
			HTML:       string(r.Body),
			StatusCode: r.StatusCode,
			FetchedAt:  time.Now(),
		}
	})

	if err := c.Visit(url); err != nil {
		return Content{}, fmt.Errorf("fetching %s: %w", url, err)
	}

	md, err := htmltomarkdown.ConvertString(result.HTML)
	if err != nil {
		// Keep the raw HTML; extraction can still work with it.
		f.logger.Warn("markdown conversion failed", "url", url, "error", err)
		result.Markdown = result.HTML
		return result, nil
	}
	result.Markdown = md
	return result, nil
}
