package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/bgg"
	"github.com/meeplekeep/meeplekeep-api/internal/llm"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// Import modes.
const (
	ModeCSV           = "csv"
	ModeBGGCollection = "bgg_collection"
	ModeBGGLinks      = "bgg_links"
	ModeSingleURL     = "single_url"
)

// ErrInvalidInput marks request-level problems (unknown mode, missing
// required input). These abort the whole request; everything else is
// recorded per item.
var ErrInvalidInput = errors.New("invalid input")

// Request is one import invocation.
type Request struct {
	Mode     string
	CSV      string
	Username string
	URLs     []string
	URL      string
	Enhance  bool

	// Overrides fill fields the source left empty; they never replace
	// values a row or a fetch provided.
	Overrides Overrides
}

// Overrides are optional default values applied to every candidate in
// a batch before the documented fallbacks.
type Overrides struct {
	Difficulty    string
	PlayTime      string
	GameType      string
	LocationRoom  string
	LocationShelf string
}

// GameFetcher builds candidates from BGG. *bgg.Fetcher implements it.
type GameFetcher interface {
	FetchByID(ctx context.Context, id string, enhance bool) (*models.CandidateGame, error)
	FetchByURL(ctx context.Context, url string, enhance bool) (*models.CandidateGame, error)
	FetchByTitle(ctx context.Context, title string, enhance bool) (*models.CandidateGame, error)
}

// CollectionLister lists a BGG user's owned games. *bgg.Client
// implements it.
type CollectionLister interface {
	Collection(ctx context.Context, username string) ([]bgg.CollectionItem, error)
}

// ImageMirror copies a cover image into durable storage and returns the
// URL to persist. *service.StorageService implements it.
type ImageMirror interface {
	MirrorImage(ctx context.Context, imageURL, gameID string) string
}

// Service orchestrates imports: seed acquisition per mode, then a
// sequential per-seed loop of enhance, de-dup, resolve and insert.
type Service struct {
	repos        *repository.Repositories
	resolver     *Resolver
	fetcher      GameFetcher
	collections  CollectionLister
	mirror       ImageMirror
	enhanceDelay time.Duration
	logger       *slog.Logger
}

// NewService creates an import service. fetcher and collections may be
// nil in reduced deployments; modes needing them then fail per item or
// per request respectively.
func NewService(repos *repository.Repositories, fetcher GameFetcher, collections CollectionLister, enhanceDelay time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repos:        repos,
		resolver:     NewResolver(repos),
		fetcher:      fetcher,
		collections:  collections,
		enhanceDelay: enhanceDelay,
		logger:       logger,
	}
}

// SetImageMirror enables cover mirroring for subsequent imports.
func (s *Service) SetImageMirror(m ImageMirror) {
	s.mirror = m
}

// Enhancement runs as a three-state machine: a single rate-limit signal
// moves the batch out of enhancing and it never moves back.
type enhanceState int

const (
	stateEnhancing enhanceState = iota
	stateRateLimited
	stateInsertingOnly
)

// Run executes one import request and returns the accumulated result.
// Per-item problems are recorded in the result and the loop continues;
// only invalid input and unrecoverable seed acquisition return errors.
func (s *Service) Run(ctx context.Context, req Request) (*models.ImportResult, error) {
	seeds, err := s.acquireSeeds(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{}
	state := stateEnhancing
	if !req.Enhance {
		state = stateInsertingOnly
	}

	for i := range seeds {
		seed := seeds[i]
		enhanced := s.processSeed(ctx, &seed, req, &state, result)

		// Pragmatic throttle between enhanced items; scraping and AI
		// endpoints are rate-sensitive.
		if enhanced && i < len(seeds)-1 && s.enhanceDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.enhanceDelay):
			}
		}
	}

	s.logger.Info("import finished",
		slog.String("mode", req.Mode),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *Service) acquireSeeds(ctx context.Context, req Request) ([]models.CandidateGame, error) {
	switch req.Mode {
	case ModeCSV:
		if strings.TrimSpace(req.CSV) == "" {
			return nil, fmt.Errorf("%w: csv mode requires csv text", ErrInvalidInput)
		}
		headers, rows := ParseCSV(req.CSV)
		return TransformRows(headers, rows), nil

	case ModeBGGCollection:
		if strings.TrimSpace(req.Username) == "" {
			return nil, fmt.Errorf("%w: bgg_collection mode requires a username", ErrInvalidInput)
		}
		if s.collections == nil {
			return nil, fmt.Errorf("%w: collection import is not configured", ErrInvalidInput)
		}
		items, err := s.collections.Collection(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		seeds := make([]models.CandidateGame, 0, len(items))
		for _, item := range items {
			seeds = append(seeds, models.CandidateGame{
				Title:  item.Name,
				BGGID:  item.ID,
				BGGURL: "https://boardgamegeek.com/boardgame/" + item.ID,
			})
		}
		return seeds, nil

	case ModeBGGLinks:
		if len(req.URLs) == 0 {
			return nil, fmt.Errorf("%w: bgg_links mode requires at least one link", ErrInvalidInput)
		}
		seeds := make([]models.CandidateGame, 0, len(req.URLs))
		for _, u := range req.URLs {
			if u = strings.TrimSpace(u); u == "" {
				continue
			}
			seeds = append(seeds, models.CandidateGame{
				BGGURL: u,
				BGGID:  bgg.ExtractIDFromURL(u),
			})
		}
		return seeds, nil

	case ModeSingleURL:
		if strings.TrimSpace(req.URL) == "" {
			return nil, fmt.Errorf("%w: single_url mode requires a url", ErrInvalidInput)
		}
		return []models.CandidateGame{{
			BGGURL: strings.TrimSpace(req.URL),
			BGGID:  bgg.ExtractIDFromURL(req.URL),
		}}, nil
	}

	return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
}

// processSeed runs one candidate through fetch/enhance, duplicate
// check, resolution and insert. It reports whether an external
// fetch/enhancement round trip happened, for throttling.
func (s *Service) processSeed(ctx context.Context, seed *models.CandidateGame, req Request, state *enhanceState, result *models.ImportResult) bool {
	fetched := s.fetchSeed(ctx, seed, state, result)

	if strings.TrimSpace(seed.Title) == "" {
		result.Failed++
		result.Errors = append(result.Errors, seedLabel(seed)+": could not resolve a title")
		return fetched
	}

	req.Overrides.apply(seed)
	seed.ApplyDefaults()
	if !bgg.AcceptImageURL(seed.ImageURL) {
		seed.ImageURL = ""
	}

	existing, err := s.repos.Game.GetByTitle(ctx, seed.Title)
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%q: duplicate check failed: %v", seed.Title, err))
		return fetched
	}
	if existing != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%q already exists", seed.Title))
		return fetched
	}

	game := s.buildGame(ctx, seed, result)

	if s.mirror != nil && game.ImageURL != "" {
		game.ID = ulid.Make().String()
		game.ImageURL = s.mirror.MirrorImage(ctx, game.ImageURL, game.ID)
	}

	if err := s.repos.Game.Create(ctx, game); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%q: insert failed: %v", seed.Title, err))
		return fetched
	}

	for _, name := range seed.Mechanics {
		mechanicID, err := s.resolver.Mechanic(ctx, name)
		if err == nil {
			err = s.repos.Game.LinkMechanic(ctx, game.ID, mechanicID)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%q: mechanic %q not linked: %v", seed.Title, name, err))
		}
	}

	result.Imported++
	result.Games = append(result.Games, models.ImportedGame{ID: game.ID, Title: game.Title})
	return fetched
}

// fetchSeed fills a seed from BGG when it is missing a title or when
// enhancement is on. Fetch failures degrade to whatever the seed
// already carries; a rate-limit signal flips the batch state so no
// further enhancement calls happen.
func (s *Service) fetchSeed(ctx context.Context, seed *models.CandidateGame, state *enhanceState, result *models.ImportResult) bool {
	doEnhance := *state == stateEnhancing
	needFetch := seed.Title == "" || doEnhance
	if !needFetch || s.fetcher == nil {
		return false
	}
	if seed.BGGID == "" && seed.BGGURL == "" && seed.Title == "" {
		return false
	}

	var (
		fetched *models.CandidateGame
		err     error
	)
	switch {
	case seed.BGGID != "":
		fetched, err = s.fetcher.FetchByID(ctx, seed.BGGID, doEnhance)
	case seed.BGGURL != "":
		fetched, err = s.fetcher.FetchByURL(ctx, seed.BGGURL, doEnhance)
	default:
		fetched, err = s.fetcher.FetchByTitle(ctx, seed.Title, doEnhance)
	}

	if err != nil {
		if llm.IsRateLimited(err) {
			*state = stateRateLimited
			result.Errors = append(result.Errors,
				seedLabel(seed)+": AI rate limited, remaining items import without enhancement")
		} else if doEnhance {
			s.logger.Warn("enhancement failed, continuing without it",
				slog.String("seed", seedLabel(seed)), slog.Any("error", err))
		}
	}

	if fetched != nil {
		mergeCandidate(seed, fetched)
	}
	return true
}

func (s *Service) buildGame(ctx context.Context, seed *models.CandidateGame, result *models.ImportResult) *models.Game {
	game := &models.Game{
		Title:        seed.Title,
		Description:  seed.Description,
		ImageURL:     seed.ImageURL,
		MinPlayers:   seed.MinPlayers,
		MaxPlayers:   seed.MaxPlayers,
		SuggestedAge: seed.SuggestedAge,
		Difficulty:   seed.Difficulty,
		PlayTime:     seed.PlayTime,
		GameType:     seed.GameType,

		IsExpansion:   seed.IsExpansion,
		InBaseGameBox: seed.InBaseGameBox,

		IsComingSoon:  seed.IsComingSoon,
		IsForSale:     seed.IsForSale,
		SalePrice:     seed.SalePrice,
		SaleCondition: seed.SaleCondition,

		LocationRoom:  seed.LocationRoom,
		LocationShelf: seed.LocationShelf,
		LocationMisc:  seed.LocationMisc,

		Sleeved:            seed.Sleeved,
		UpgradedComponents: seed.UpgradedComponents,
		Crowdfunded:        seed.Crowdfunded,
		Inserts:            seed.Inserts,

		BGGID:  seed.BGGID,
		BGGURL: seed.BGGURL,
	}

	if seed.Publisher != "" {
		publisherID, err := s.resolver.Publisher(ctx, seed.Publisher)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%q: publisher %q not resolved: %v", seed.Title, seed.Publisher, err))
		} else {
			game.PublisherID = &publisherID
		}
	}

	if seed.IsExpansion && seed.ParentGame != "" {
		parentID, err := s.resolver.Parent(ctx, seed.ParentGame)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("%q: parent lookup failed: %v", seed.Title, err))
		case parentID == "":
			result.Errors = append(result.Errors, fmt.Sprintf("%q: parent game %q not found, imported unlinked", seed.Title, seed.ParentGame))
		default:
			game.ParentGameID = &parentID
		}
	}

	return game
}

// mergeCandidate folds a fetched candidate into a seed; seed values
// win except the image, where a freshly scraped cover replaces a
// placeholder.
func mergeCandidate(seed, fetched *models.CandidateGame) {
	if fetched.ImageURL != "" {
		seed.ImageURL = fetched.ImageURL
	}
	if seed.Title == "" {
		seed.Title = fetched.Title
	}
	if seed.Description == "" {
		seed.Description = fetched.Description
	}
	if seed.MinPlayers == 0 {
		seed.MinPlayers = fetched.MinPlayers
	}
	if seed.MaxPlayers == 0 {
		seed.MaxPlayers = fetched.MaxPlayers
	}
	if seed.SuggestedAge == "" {
		seed.SuggestedAge = fetched.SuggestedAge
	}
	if seed.Difficulty == "" {
		seed.Difficulty = fetched.Difficulty
	}
	if seed.PlayTime == "" {
		seed.PlayTime = fetched.PlayTime
	}
	if seed.GameType == "" {
		seed.GameType = fetched.GameType
	}
	if len(seed.Mechanics) == 0 {
		seed.Mechanics = fetched.Mechanics
	}
	if seed.Publisher == "" {
		seed.Publisher = fetched.Publisher
	}
	if !seed.IsExpansion {
		seed.IsExpansion = fetched.IsExpansion
	}
	if seed.ParentGame == "" {
		seed.ParentGame = fetched.ParentGame
	}
	if seed.BGGID == "" {
		seed.BGGID = fetched.BGGID
	}
	if seed.BGGURL == "" {
		seed.BGGURL = fetched.BGGURL
	}
}

func (o Overrides) apply(c *models.CandidateGame) {
	if c.Difficulty == "" && o.Difficulty != "" {
		if d, ok := models.ParseDifficulty(o.Difficulty); ok {
			c.Difficulty = d
		}
	}
	if c.PlayTime == "" && o.PlayTime != "" {
		if p, ok := models.ParsePlayTime(o.PlayTime); ok {
			c.PlayTime = p
		}
	}
	if c.GameType == "" && o.GameType != "" {
		if g, ok := models.ParseGameType(o.GameType); ok {
			c.GameType = g
		}
	}
	if c.LocationRoom == "" {
		c.LocationRoom = o.LocationRoom
	}
	if c.LocationShelf == "" {
		c.LocationShelf = o.LocationShelf
	}
}

func seedLabel(seed *models.CandidateGame) string {
	switch {
	case seed.Title != "":
		return fmt.Sprintf("%q", seed.Title)
	case seed.BGGID != "":
		return "BGG id " + seed.BGGID
	case seed.BGGURL != "":
		return seed.BGGURL
	}
	return "(unidentified row)"
}
