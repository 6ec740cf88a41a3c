package bgg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/meeplekeep/meeplekeep-api/internal/extract"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/scrape"
)

// Fetcher assembles a candidate game from BGG: API search, page
// scraping for the title and cover image, and optional LLM extraction
// for the remaining fields.
type Fetcher struct {
	client      *Client
	scraper     *scrape.Fetcher
	extractor   extract.Extractor // nil when extraction is not configured
	siteBaseURL string
	logger      *slog.Logger
}

// NewFetcher creates a Fetcher. extractor may be nil; fetches then
// return only what scraping provides, with defaulted vocabularies.
func NewFetcher(client *Client, scraper *scrape.Fetcher, extractor extract.Extractor, siteBaseURL string, logger *slog.Logger) *Fetcher {
	if siteBaseURL == "" {
		siteBaseURL = "https://boardgamegeek.com"
	}
	return &Fetcher{
		client:      client,
		scraper:     scraper,
		extractor:   extractor,
		siteBaseURL: strings.TrimRight(siteBaseURL, "/"),
		logger:      logger,
	}
}

// FetchByID scrapes the BGG page for a game id and builds a candidate.
// When enhance is true and an extractor is configured, the page text is
// run through extraction; an extraction failure still returns the
// scraped candidate alongside the error so the caller can decide
// whether to keep enhancing subsequent items.
func (f *Fetcher) FetchByID(ctx context.Context, id string, enhance bool) (*models.CandidateGame, error) {
	pageURL := fmt.Sprintf("%s/boardgame/%s", f.siteBaseURL, id)
	return f.fetchPage(ctx, id, pageURL, enhance)
}

// FetchByURL builds a candidate from an arbitrary game page URL. The
// BGG id is taken from the URL when it points at boardgamegeek.
func (f *Fetcher) FetchByURL(ctx context.Context, pageURL string, enhance bool) (*models.CandidateGame, error) {
	return f.fetchPage(ctx, ExtractIDFromURL(pageURL), pageURL, enhance)
}

// FetchByTitle searches BGG for a title and fetches the first hit.
// No search hit is a miss, reported as (nil, nil).
func (f *Fetcher) FetchByTitle(ctx context.Context, title string, enhance bool) (*models.CandidateGame, error) {
	hit, err := f.client.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		f.logger.Debug("no BGG match", slog.String("title", title))
		return nil, nil
	}
	candidate, err := f.FetchByID(ctx, hit.ID, enhance)
	if candidate != nil && candidate.Title == "" {
		candidate.Title = hit.Name
	}
	return candidate, err
}

func (f *Fetcher) fetchPage(ctx context.Context, id, pageURL string, enhance bool) (*models.CandidateGame, error) {
	content, err := f.scraper.Fetch(ctx, pageURL)
	if err != nil {
		// An unreachable page is survivable: the XML API below can
		// still supply the basics, so continue with an empty page.
		f.logger.Warn("scrape failed, falling back to API metadata",
			slog.String("url", pageURL), slog.Any("error", err))
		content = scrape.Content{}
	}

	candidate := &models.CandidateGame{
		BGGID:  id,
		BGGURL: pageURL,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err == nil {
		candidate.Title = ExtractTitle(doc)
		candidate.ImageURL = BestImage(ExtractImageCandidates(doc))
	}

	var exErr error
	if enhance && f.extractor != nil && content.Markdown != "" {
		facts, err := f.extractor.Extract(ctx, content.Markdown)
		if err != nil {
			exErr = err
		} else {
			scrapedImage := candidate.ImageURL
			extract.Merge(candidate, facts)
			if scrapedImage != "" {
				candidate.ImageURL = scrapedImage
			}
		}
	}

	// Best-effort API supplement for whatever is still blank.
	if f.client != nil && id != "" {
		info, err := f.client.Thing(ctx, id)
		if err != nil {
			f.logger.Debug("thing lookup failed", slog.String("id", id), slog.Any("error", err))
		} else if info != nil {
			applyThing(candidate, info)
		}
	}

	candidate.ApplyDefaults()
	return candidate, exErr
}

// applyThing fills blank candidate fields from API metadata. Values the
// page or the extractor already provided are kept.
func applyThing(c *models.CandidateGame, info *ThingInfo) {
	if c.Title == "" {
		c.Title = info.Name
	}
	if c.Description == "" {
		c.Description = info.Description
	}
	if c.ImageURL == "" && AcceptImageURL(info.Image) {
		c.ImageURL = info.Image
	}
	if c.MinPlayers == 0 {
		c.MinPlayers = info.MinPlayers
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = info.MaxPlayers
	}
	if c.Difficulty == "" && info.AverageWeight > 0 {
		c.Difficulty = models.MapWeightToDifficulty(info.AverageWeight)
	}
	if c.PlayTime == "" && info.PlayingTime > 0 {
		c.PlayTime = models.MapMinutesToPlayTime(info.PlayingTime)
	}
	if info.IsExpansion {
		c.IsExpansion = true
	}
}

// ExtractIDFromURL pulls the numeric game id out of a boardgamegeek
// URL like https://boardgamegeek.com/boardgame/266192/wingspan.
// Returns "" when the URL carries no id.
func ExtractIDFromURL(pageURL string) string {
	for _, marker := range []string{"/boardgame/", "/boardgameexpansion/"} {
		idx := strings.Index(pageURL, marker)
		if idx < 0 {
			continue
		}
		rest := pageURL[idx+len(marker):]
		if end := strings.IndexAny(rest, "/?#"); end >= 0 {
			rest = rest[:end]
		}
		if rest != "" && isDigits(rest) {
			return rest
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
