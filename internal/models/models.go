// Package models defines the domain models for the application.
package models

import (
	"regexp"
	"strings"
	"time"
)

// Game represents a persisted board game in the collection.
type Game struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	MinPlayers   int    `json:"min_players"`
	MaxPlayers   int    `json:"max_players"`
	SuggestedAge string `json:"suggested_age,omitempty"`

	Difficulty Difficulty `json:"difficulty"`
	PlayTime   PlayTime   `json:"play_time"`
	GameType   GameType   `json:"game_type"`

	PublisherID   *string `json:"publisher_id,omitempty"`
	IsExpansion   bool    `json:"is_expansion"`
	ParentGameID  *string `json:"parent_game_id,omitempty"`
	InBaseGameBox bool    `json:"in_base_game_box"`

	IsComingSoon  bool           `json:"is_coming_soon"`
	IsForSale     bool           `json:"is_for_sale"`
	SalePrice     *float64       `json:"sale_price,omitempty"`
	SaleCondition *SaleCondition `json:"sale_condition,omitempty"`

	LocationRoom  string `json:"location_room,omitempty"`
	LocationShelf string `json:"location_shelf,omitempty"`
	LocationMisc  string `json:"location_misc,omitempty"`

	Sleeved            bool `json:"sleeved"`
	UpgradedComponents bool `json:"upgraded_components"`
	Crowdfunded        bool `json:"crowdfunded"`
	Inserts            bool `json:"inserts"`

	BGGID  string `json:"bgg_id,omitempty"`
	BGGURL string `json:"bgg_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mechanic is a small reference entity, unique by name.
type Mechanic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Publisher is a small reference entity, unique by name.
type Publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CandidateGame is the transient, in-memory unit of work flowing through
// the import pipeline. Name-based hints (Publisher, ParentGame, Mechanics)
// are resolved to foreign keys just before the row is persisted.
type CandidateGame struct {
	Title       string
	BGGID       string
	BGGURL      string
	Description string
	ImageURL    string

	MinPlayers   int
	MaxPlayers   int
	SuggestedAge string

	Difficulty Difficulty
	PlayTime   PlayTime
	GameType   GameType

	Mechanics []string
	Publisher string

	IsExpansion   bool
	ParentGame    string
	InBaseGameBox bool

	IsComingSoon  bool
	IsForSale     bool
	SalePrice     *float64
	SaleCondition *SaleCondition

	LocationRoom  string
	LocationShelf string
	LocationMisc  string

	Sleeved            bool
	UpgradedComponents bool
	Crowdfunded        bool
	Inserts            bool
}

// ApplyDefaults fills missing enum and player-count fields with the
// documented defaults. A candidate is never persisted with an empty
// enum value.
func (c *CandidateGame) ApplyDefaults() {
	if c.Difficulty == "" {
		c.Difficulty = DifficultyDefault
	}
	if c.PlayTime == "" {
		c.PlayTime = PlayTimeDefault
	}
	if c.GameType == "" {
		c.GameType = GameTypeDefault
	}
	if c.MinPlayers <= 0 {
		c.MinPlayers = 1
	}
	if c.MaxPlayers < c.MinPlayers {
		c.MaxPlayers = c.MinPlayers
	}
}

// ImportedGame identifies a game created during an import run.
type ImportedGame struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ImportResult is the per-request summary of a bulk import. It is
// returned to the caller and never persisted.
type ImportResult struct {
	Imported int            `json:"imported"`
	Failed   int            `json:"failed"`
	Errors   []string       `json:"errors"`
	Games    []ImportedGame `json:"games"`
}

// WishlistItem represents a game the owner wants but does not have.
type WishlistItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	BGGURL    string    `json:"bgg_url,omitempty"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a contact or sale enquiry from a visitor.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GameID    *string   `json:"game_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// APIKey represents an API key for programmatic admin access.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"` // First 8 chars for display
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a game title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
