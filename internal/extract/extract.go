// Package extract turns unstructured page text into structured game
// facts using an LLM with a constrained tool schema.
package extract

import (
	"context"
	"strings"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// GameFacts is what the extraction model reports about a single game.
// Numeric fields use flexible types because models sometimes emit
// numbers as strings.
type GameFacts struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	MinPlayers   models.FlexInt   `json:"min_players"`
	MaxPlayers   models.FlexInt   `json:"max_players"`
	SuggestedAge string           `json:"suggested_age"`
	Difficulty   string           `json:"difficulty"`
	PlayTime     string           `json:"play_time"`
	GameType     string           `json:"game_type"`
	Mechanics    []string         `json:"mechanics"`
	Publisher    string           `json:"publisher"`
	IsExpansion  bool             `json:"is_expansion"`
	ParentGame   string           `json:"parent_game"`
	Weight       models.FlexFloat `json:"complexity_weight"`
}

// Extractor extracts structured game facts from page text.
type Extractor interface {
	Extract(ctx context.Context, pageText string) (*GameFacts, error)
}

// Merge folds extracted facts into a candidate without clobbering
// values that are already present. Existing non-empty fields win; the
// one exception is handled by the caller, which may prefer a freshly
// scraped cover image over anything the model reports.
func Merge(c *models.CandidateGame, f *GameFacts) {
	if f == nil {
		return
	}
	if c.Title == "" {
		c.Title = strings.TrimSpace(f.Title)
	}
	if c.Description == "" {
		c.Description = strings.TrimSpace(f.Description)
	}
	if c.MinPlayers == 0 && f.MinPlayers > 0 {
		c.MinPlayers = int(f.MinPlayers)
	}
	if c.MaxPlayers == 0 && f.MaxPlayers > 0 {
		c.MaxPlayers = int(f.MaxPlayers)
	}
	if c.SuggestedAge == "" {
		c.SuggestedAge = strings.TrimSpace(f.SuggestedAge)
	}
	if c.Difficulty == "" {
		if d, ok := models.ParseDifficulty(f.Difficulty); ok {
			c.Difficulty = d
		} else if w := float64(f.Weight); w > 0 {
			c.Difficulty = models.MapWeightToDifficulty(w)
		}
	}
	if c.PlayTime == "" {
		if p, ok := models.ParsePlayTime(f.PlayTime); ok {
			c.PlayTime = p
		}
	}
	if c.GameType == "" {
		if g, ok := models.ParseGameType(f.GameType); ok {
			c.GameType = g
		}
	}
	if len(c.Mechanics) == 0 {
		for _, m := range f.Mechanics {
			if m = strings.TrimSpace(m); m != "" {
				c.Mechanics = append(c.Mechanics, m)
			}
		}
	}
	if c.Publisher == "" {
		c.Publisher = strings.TrimSpace(f.Publisher)
	}
	if !c.IsExpansion && f.IsExpansion {
		c.IsExpansion = true
	}
	if c.ParentGame == "" {
		c.ParentGame = strings.TrimSpace(f.ParentGame)
	}
}
