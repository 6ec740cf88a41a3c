// Package bgg talks to BoardGameGeek: the XML API2 for search and
// collection listings, and the public site for page scraping.
package bgg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
)

// ErrCollectionTimeout is returned when BGG keeps reporting that a
// collection export is still being generated after all retries.
var ErrCollectionTimeout = fmt.Errorf("collection request timed out: BGG is still generating the export")

// SearchResult is one hit from the XML API2 search endpoint.
type SearchResult struct {
	ID   string
	Name string
	Year string
}

// CollectionItem is one owned game from a user's collection listing.
type CollectionItem struct {
	ID   string
	Name string
}

// ThingInfo is the structured metadata the XML API2 thing endpoint
// reports for a game.
type ThingInfo struct {
	ID            string
	Name          string
	Description   string
	Image         string
	YearPublished string
	MinPlayers    int
	MaxPlayers    int
	PlayingTime   int
	AverageWeight float64
	IsExpansion   bool
}

// Client wraps the BGG XML API2.
type Client struct {
	baseURL            string
	httpClient         *http.Client
	collectionAttempts int
	collectionDelay    time.Duration
	logger             *slog.Logger
}

// NewClient creates a BGG API client. attempts and delay bound the
// collection "still generating" retry loop.
func NewClient(baseURL string, attempts int, delay time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://boardgamegeek.com/xmlapi2"
	}
	if attempts <= 0 {
		attempts = 5
	}
	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		httpClient:         &http.Client{Timeout: 30 * time.Second},
		collectionAttempts: attempts,
		collectionDelay:    delay,
		logger:             logger,
	}
}

// Search looks a title up on BGG, trying an exact match first and
// falling back to fuzzy search. A miss returns (nil, nil).
func (c *Client) Search(ctx context.Context, title string) (*SearchResult, error) {
	if result, err := c.search(ctx, title, true); err != nil || result != nil {
		return result, err
	}
	return c.search(ctx, title, false)
}

func (c *Client) search(ctx context.Context, title string, exact bool) (*SearchResult, error) {
	q := url.Values{}
	q.Set("query", title)
	q.Set("type", "boardgame,boardgameexpansion")
	if exact {
		q.Set("exact", "1")
	}

	doc, _, err := c.get(ctx, "/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", title, err)
	}

	item := xmlquery.FindOne(doc, "//item")
	if item == nil {
		return nil, nil
	}
	result := &SearchResult{ID: item.SelectAttr("id")}
	if name := xmlquery.FindOne(item, "name"); name != nil {
		result.Name = name.SelectAttr("value")
	}
	if year := xmlquery.FindOne(item, "yearpublished"); year != nil {
		result.Year = year.SelectAttr("value")
	}
	return result, nil
}

// Thing fetches structured metadata for a game id, including the
// community weight rating. A miss returns (nil, nil).
func (c *Client) Thing(ctx context.Context, id string) (*ThingInfo, error) {
	q := url.Values{}
	q.Set("id", id)
	q.Set("stats", "1")

	doc, _, err := c.get(ctx, "/thing?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching thing %s: %w", id, err)
	}

	item := xmlquery.FindOne(doc, "//item")
	if item == nil {
		return nil, nil
	}

	info := &ThingInfo{
		ID:          item.SelectAttr("id"),
		IsExpansion: item.SelectAttr("type") == "boardgameexpansion",
	}
	if n := xmlquery.FindOne(item, "name[@type='primary']"); n != nil {
		info.Name = n.SelectAttr("value")
	}
	if d := xmlquery.FindOne(item, "description"); d != nil {
		info.Description = strings.TrimSpace(d.InnerText())
	}
	if img := xmlquery.FindOne(item, "image"); img != nil {
		info.Image = strings.TrimSpace(img.InnerText())
	}
	if y := xmlquery.FindOne(item, "yearpublished"); y != nil {
		info.YearPublished = y.SelectAttr("value")
	}
	info.MinPlayers = attrInt(item, "minplayers")
	info.MaxPlayers = attrInt(item, "maxplayers")
	info.PlayingTime = attrInt(item, "playingtime")
	if w := xmlquery.FindOne(item, "statistics/ratings/averageweight"); w != nil {
		if v, err := strconv.ParseFloat(w.SelectAttr("value"), 64); err == nil {
			info.AverageWeight = v
		}
	}
	return info, nil
}

func attrInt(item *xmlquery.Node, name string) int {
	node := xmlquery.FindOne(item, name)
	if node == nil {
		return 0
	}
	v, err := strconv.Atoi(node.SelectAttr("value"))
	if err != nil {
		return 0
	}
	return v
}

// Collection lists the owned games of a BGG user. BGG generates
// collection exports asynchronously and answers 202 until the export
// is ready; we retry a fixed number of times with a fixed delay and
// give up with ErrCollectionTimeout.
func (c *Client) Collection(ctx context.Context, username string) ([]CollectionItem, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("own", "1")
	q.Set("subtype", "boardgame")
	path := "/collection?" + q.Encode()

	for attempt := 1; attempt <= c.collectionAttempts; attempt++ {
		doc, status, err := c.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("fetching collection for %q: %w", username, err)
		}
		if status == http.StatusAccepted {
			c.logger.Debug("collection still generating",
				slog.String("username", username),
				slog.Int("attempt", attempt))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.collectionDelay):
			}
			continue
		}

		var items []CollectionItem
		for _, node := range xmlquery.Find(doc, "//item") {
			item := CollectionItem{ID: node.SelectAttr("objectid")}
			if name := xmlquery.FindOne(node, "name"); name != nil {
				item.Name = strings.TrimSpace(name.InnerText())
			}
			if item.ID != "" {
				items = append(items, item)
			}
		}
		return items, nil
	}

	return nil, ErrCollectionTimeout
}

func (c *Client) get(ctx context.Context, path string) (*xmlquery.Node, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusAccepted {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("BGG API returned status %d", resp.StatusCode)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parsing XML: %w", err)
	}
	return doc, resp.StatusCode, nil
}
