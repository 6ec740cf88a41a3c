package importer

import (
	"strconv"
	"strings"

	"github.com/meeplekeep/meeplekeep-api/internal/bgg"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// Format identifies the recognized CSV shapes.
type Format int

const (
	// FormatGeneric is a user-authored spreadsheet with tolerant
	// header aliases.
	FormatGeneric Format = iota
	// FormatCollection is the BGG collection export layout.
	FormatCollection
)

// DetectFormat decides which transformer applies to a header set. The
// collection export is recognized by its objectname/objectid pair; any
// other header set is treated as a generic spreadsheet.
func DetectFormat(headers []string) Format {
	var hasName, hasID bool
	for _, h := range headers {
		switch h {
		case "objectname":
			hasName = true
		case "objectid":
			hasID = true
		}
	}
	if hasName && hasID {
		return FormatCollection
	}
	return FormatGeneric
}

// TransformRows normalizes parsed rows into candidate games using the
// transformer for the detected format. Collection-export rows that are
// not owned are silently dropped.
func TransformRows(headers []string, rows []Row) []models.CandidateGame {
	transform := transformGenericRow
	format := DetectFormat(headers)
	if format == FormatCollection {
		transform = transformCollectionRow
	}

	var candidates []models.CandidateGame
	for _, row := range rows {
		if format == FormatCollection && !parseBool(row["own"]) {
			continue
		}
		candidates = append(candidates, transform(row))
	}
	return candidates
}

// parseBool treats "true", "yes" and "1" (case-insensitively) as true
// and everything else as false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// lookup returns the first non-empty value among the aliased columns.
func lookup(row Row, aliases ...string) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(row[a]); v != "" {
			return v
		}
	}
	return ""
}

func parseIntField(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func splitMechanics(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// transformGenericRow maps a generic spreadsheet row onto a candidate.
// Unparsable numeric fields are omitted rather than zeroed; vocabulary
// fields accept either an exact enum value or a raw number that maps
// through the bucket functions.
func transformGenericRow(row Row) models.CandidateGame {
	c := models.CandidateGame{
		Title:        lookup(row, "title", "name", "game", "game name"),
		Description:  lookup(row, "description", "notes"),
		SuggestedAge: lookup(row, "suggested_age", "suggested age", "age"),
		Publisher:    lookup(row, "publisher"),
		ParentGame:   lookup(row, "parent_game", "parent game", "parent"),
		BGGID:        lookup(row, "bgg_id", "bgg id"),
		BGGURL:       lookup(row, "bgg_url", "bgg url", "url"),

		LocationRoom:  lookup(row, "location_room", "location room"),
		LocationShelf: lookup(row, "location_shelf", "location shelf"),
		LocationMisc:  lookup(row, "location_misc", "location misc", "location"),

		IsExpansion:        parseBool(lookup(row, "is_expansion", "expansion")),
		InBaseGameBox:      parseBool(lookup(row, "in_base_game_box", "in base game box")),
		IsComingSoon:       parseBool(lookup(row, "is_coming_soon", "coming soon")),
		IsForSale:          parseBool(lookup(row, "is_for_sale", "for sale")),
		Sleeved:            parseBool(lookup(row, "sleeved")),
		UpgradedComponents: parseBool(lookup(row, "upgraded_components", "upgraded components")),
		Crowdfunded:        parseBool(lookup(row, "crowdfunded")),
		Inserts:            parseBool(lookup(row, "inserts")),
	}

	if n, ok := parseIntField(lookup(row, "min_players", "min players", "minplayers")); ok && n > 0 {
		c.MinPlayers = n
	}
	if n, ok := parseIntField(lookup(row, "max_players", "max players", "maxplayers")); ok && n > 0 {
		c.MaxPlayers = n
	}

	if v := lookup(row, "difficulty", "complexity", "weight"); v != "" {
		if d, ok := models.ParseDifficulty(v); ok {
			c.Difficulty = d
		} else if w, ok := parseFloatField(v); ok {
			c.Difficulty = models.MapWeightToDifficulty(w)
		}
	}
	if v := lookup(row, "play_time", "play time", "playtime", "playing_time", "playing time"); v != "" {
		if p, ok := models.ParsePlayTime(v); ok {
			c.PlayTime = p
		} else if m, ok := parseIntField(v); ok {
			c.PlayTime = models.MapMinutesToPlayTime(m)
		}
	}
	if v := lookup(row, "game_type", "game type", "type"); v != "" {
		if g, ok := models.ParseGameType(v); ok {
			c.GameType = g
		}
	}

	if v := lookup(row, "mechanics", "mechanic"); v != "" {
		c.Mechanics = splitMechanics(v)
	}

	if img := lookup(row, "image_url", "image url", "image"); bgg.AcceptImageURL(img) {
		c.ImageURL = img
	}

	if price, ok := parseFloatField(lookup(row, "sale_price", "sale price", "price")); ok && price > 0 {
		c.SalePrice = &price
	}
	if v := lookup(row, "sale_condition", "sale condition", "condition"); v != "" {
		if sc, ok := models.ParseSaleCondition(v); ok {
			c.SaleCondition = &sc
		}
	}

	return c
}

// transformCollectionRow maps a BGG collection export row. The caller
// has already filtered to owned rows.
func transformCollectionRow(row Row) models.CandidateGame {
	c := models.CandidateGame{
		Title:        strings.TrimSpace(row["objectname"]),
		BGGID:        strings.TrimSpace(row["objectid"]),
		Description:  strings.TrimSpace(row["comment"]),
		IsForSale:    parseBool(row["fortrade"]),
		LocationMisc: strings.TrimSpace(lookup(row, "invlocation", "location")),
	}
	if c.BGGID != "" {
		c.BGGURL = "https://boardgamegeek.com/boardgame/" + c.BGGID
	}

	if strings.EqualFold(strings.TrimSpace(row["itemtype"]), "expansion") {
		c.IsExpansion = true
	}

	if n, ok := parseIntField(row["minplayers"]); ok && n > 0 {
		c.MinPlayers = n
	}
	if n, ok := parseIntField(row["maxplayers"]); ok && n > 0 {
		c.MaxPlayers = n
	}

	if w, ok := parseFloatField(lookup(row, "avgweight", "weight")); ok {
		c.Difficulty = models.MapWeightToDifficulty(w)
	}
	if m, ok := parseIntField(lookup(row, "playingtime", "playing time")); ok {
		c.PlayTime = models.MapMinutesToPlayTime(m)
	}

	return c
}
