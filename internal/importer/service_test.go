package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/meeplekeep/meeplekeep-api/internal/bgg"
	"github.com/meeplekeep/meeplekeep-api/internal/database/migrations"
	"github.com/meeplekeep/meeplekeep-api/internal/llm"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := sql.Open("libsql", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := migrations.Run(db, nil); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewRepositories(db)
}

// fakeFetcher scripts fetch outcomes per call in order.
type fakeFetcher struct {
	results      []*models.CandidateGame
	errs         []error
	calls        int
	enhanceCalls int
}

func (f *fakeFetcher) next(enhance bool) (*models.CandidateGame, error) {
	idx := f.calls
	f.calls++
	if enhance {
		f.enhanceCalls++
	}
	var c *models.CandidateGame
	var err error
	if idx < len(f.results) && f.results[idx] != nil {
		copied := *f.results[idx]
		c = &copied
	}
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	return c, err
}

func (f *fakeFetcher) FetchByID(_ context.Context, _ string, enhance bool) (*models.CandidateGame, error) {
	return f.next(enhance)
}

func (f *fakeFetcher) FetchByURL(_ context.Context, _ string, enhance bool) (*models.CandidateGame, error) {
	return f.next(enhance)
}

func (f *fakeFetcher) FetchByTitle(_ context.Context, _ string, enhance bool) (*models.CandidateGame, error) {
	return f.next(enhance)
}

type fakeCollections struct {
	items []bgg.CollectionItem
	err   error
}

func (f *fakeCollections) Collection(_ context.Context, _ string) ([]bgg.CollectionItem, error) {
	return f.items, f.err
}

func TestRunCleanCSVImport(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeCSV,
		CSV:  "title,min_players,max_players\n\"Wingspan\",1,5\n",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Games) != 1 || result.Games[0].Title != "Wingspan" {
		t.Fatalf("games = %+v", result.Games)
	}

	game, err := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if err != nil || game == nil {
		t.Fatalf("persisted game missing: %v", err)
	}
	if game.Difficulty != models.DifficultyMedium {
		t.Errorf("difficulty = %q, want default", game.Difficulty)
	}
	if game.PlayTime != models.PlayTime45To60 {
		t.Errorf("play time = %q, want default", game.PlayTime)
	}
	if game.GameType != models.GameTypeBoardGame {
		t.Errorf("game type = %q, want default", game.GameType)
	}
	if game.MinPlayers != 1 || game.MaxPlayers != 5 {
		t.Errorf("players = %d-%d", game.MinPlayers, game.MaxPlayers)
	}
}

func TestRunDuplicateTitle(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())
	req := Request{Mode: ModeCSV, CSV: "title\nWingspan\n"}

	if _, err := svc.Run(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	result, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Imported != 0 || result.Failed != 1 {
		t.Fatalf("result = %+v", result)
	}
	want := `"Wingspan" already exists`
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Fatalf("errors = %v, want [%s]", result.Errors, want)
	}

	count, err := repos.Game.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("game count = %d, duplicate was inserted", count)
	}
}

func TestRunDuplicateIsCaseSensitive(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	if _, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: "title\nWingspan\n"}); err != nil {
		t.Fatal(err)
	}
	result, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: "title\nWINGSPAN\n"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Errorf("differently-cased title should import: %+v", result)
	}
}

func TestRunRateLimitedMidBatch(t *testing.T) {
	repos := setupTestRepos(t)
	rateErr := llm.Classify(errors.New("rate limit exceeded"), "openai", "m", 429)
	fetcher := &fakeFetcher{
		results: []*models.CandidateGame{
			{Title: "Wingspan", Description: "An enhanced description."},
			nil,
		},
		errs: []error{nil, rateErr, nil},
	}
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode:    ModeCSV,
		CSV:     "title\nWingspan\nAzul\nRoot\n",
		Enhance: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 3 {
		t.Fatalf("imported = %d, all items should still insert: %v", result.Imported, result.Errors)
	}
	if fetcher.enhanceCalls != 2 {
		t.Errorf("enhancement calls = %d, want 2 (stop after the signal)", fetcher.enhanceCalls)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, item 3 has a title and needs no fetch", fetcher.calls)
	}

	enhanced, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if enhanced == nil || enhanced.Description != "An enhanced description." {
		t.Errorf("item 1 should be enhanced: %+v", enhanced)
	}
	plain, _ := repos.Game.GetByTitle(context.Background(), "Azul")
	if plain == nil || plain.Description != "" {
		t.Errorf("item 2 should import un-enhanced: %+v", plain)
	}

	var sawNote bool
	for _, e := range result.Errors {
		if strings.Contains(e, "rate limited") {
			sawNote = true
		}
	}
	if !sawNote {
		t.Errorf("rate limit should be surfaced in errors: %v", result.Errors)
	}
}

func TestFetchSeedRateLimitRestsInRateLimitedState(t *testing.T) {
	repos := setupTestRepos(t)
	rateErr := llm.Classify(errors.New("slow down"), "openai", "m", 429)
	fetcher := &fakeFetcher{errs: []error{rateErr}}
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	state := stateEnhancing
	seed := models.CandidateGame{Title: "Wingspan"}
	result := &models.ImportResult{}
	svc.fetchSeed(context.Background(), &seed, &state, result)
	if state != stateRateLimited {
		t.Errorf("state = %d, want stateRateLimited", state)
	}
	// The rate-limited state behaves as inserting-only for the rest of
	// the batch.
	svc.fetchSeed(context.Background(), &seed, &state, result)
	if fetcher.enhanceCalls != 1 {
		t.Errorf("enhance calls = %d, want 1", fetcher.enhanceCalls)
	}
}

func TestRunGenericEnhancementFailureStillImports(t *testing.T) {
	repos := setupTestRepos(t)
	fetcher := &fakeFetcher{errs: []error{errors.New("model fell over")}}
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode:    ModeCSV,
		CSV:     "title\nWingspan\n",
		Enhance: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRunRejectedImageURLCleared(t *testing.T) {
	repos := setupTestRepos(t)
	fetcher := &fakeFetcher{
		results: []*models.CandidateGame{{
			Title:    "Wingspan",
			ImageURL: "https://cf.geekdo-images.com/x__thumb/img/pic1.jpg",
		}},
	}
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode:    ModeCSV,
		CSV:     "title\nWingspan\n",
		Enhance: true,
	})
	if err != nil || result.Imported != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	game, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if game.ImageURL != "" {
		t.Errorf("thumbnail image persisted: %q", game.ImageURL)
	}
}

func TestRunCollectionMode(t *testing.T) {
	repos := setupTestRepos(t)
	collections := &fakeCollections{items: []bgg.CollectionItem{
		{ID: "266192", Name: "Wingspan"},
		{ID: "230802", Name: "Azul"},
	}}
	svc := NewService(repos, nil, collections, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{Mode: ModeBGGCollection, Username: "someuser"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("result = %+v", result)
	}
	game, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if game == nil || game.BGGID != "266192" {
		t.Errorf("game = %+v", game)
	}
}

func TestRunCollectionTimeoutIsFatal(t *testing.T) {
	repos := setupTestRepos(t)
	collections := &fakeCollections{err: bgg.ErrCollectionTimeout}
	svc := NewService(repos, nil, collections, 0, testLogger())

	if _, err := svc.Run(context.Background(), Request{Mode: ModeBGGCollection, Username: "someuser"}); !errors.Is(err, bgg.ErrCollectionTimeout) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunEmptyCollectionIsSuccess(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, &fakeCollections{}, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{Mode: ModeBGGCollection, Username: "someuser"})
	if err != nil {
		t.Fatalf("empty collection should succeed: %v", err)
	}
	if result.Imported != 0 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestRunLinksMode(t *testing.T) {
	repos := setupTestRepos(t)
	fetcher := &fakeFetcher{results: []*models.CandidateGame{
		{Title: "Wingspan", BGGID: "266192"},
	}}
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeBGGLinks,
		URLs: []string{"https://boardgamegeek.com/boardgame/266192/wingspan"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRunLinksModeUnresolvableTitle(t *testing.T) {
	repos := setupTestRepos(t)
	fetcher := &fakeFetcher{} // fetch returns nothing
	svc := NewService(repos, fetcher, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeBGGLinks,
		URLs: []string{"https://boardgamegeek.com/boardgame/99999/unknown"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Imported != 0 || result.Failed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "could not resolve a title") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestRunInvalidInput(t *testing.T) {
	svc := NewService(setupTestRepos(t), nil, nil, 0, testLogger())
	cases := []Request{
		{Mode: "bulk_magic"},
		{Mode: ModeCSV},
		{Mode: ModeBGGCollection},
		{Mode: ModeBGGLinks},
		{Mode: ModeSingleURL},
	}
	for _, req := range cases {
		if _, err := svc.Run(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("mode %q: err = %v, want ErrInvalidInput", req.Mode, err)
		}
	}
}

func TestRunResolvesEntitiesIdempotently(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	csv := "title,publisher,mechanics\n" +
		"Wingspan,Stonemaier Games,Engine Building; Card Drafting\n" +
		"Tapestry,Stonemaier Games,Engine Building\n"
	result, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: csv})
	if err != nil || result.Imported != 2 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}

	mechanics, err := repos.Mechanic.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(mechanics) != 2 {
		t.Errorf("mechanics = %d, duplicate created", len(mechanics))
	}
	publishers, err := repos.Publisher.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(publishers) != 1 {
		t.Errorf("publishers = %d, duplicate created", len(publishers))
	}
}

func TestRunExpansionParentLinking(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	base := "title\nWingspan\n"
	if _, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: base}); err != nil {
		t.Fatal(err)
	}

	exp := "title,is_expansion,parent_game\nWingspan: European Expansion,yes,Wingspan\n"
	result, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: exp})
	if err != nil || result.Imported != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}

	parent, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	child, _ := repos.Game.GetByTitle(context.Background(), "Wingspan: European Expansion")
	if child.ParentGameID == nil || *child.ParentGameID != parent.ID {
		t.Errorf("parent not linked: %+v", child.ParentGameID)
	}
}

func TestRunExpansionMissingParentIsAnnotation(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	csv := "title,is_expansion,parent_game\nSome Expansion,yes,Nonexistent Base\n"
	result, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: csv})
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Failed != 0 {
		t.Fatalf("missing parent must not fail the import: %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "not found") {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestRunOverrides(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeCSV,
		CSV:  "title,difficulty\nWingspan,4 - Hard\n",
		Overrides: Overrides{
			Difficulty:   "2 - Easy",
			GameType:     "Card Game",
			LocationRoom: "Study",
		},
	})
	if err != nil || result.Imported != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	game, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if game.Difficulty != models.DifficultyHard {
		t.Errorf("row value should beat override: %q", game.Difficulty)
	}
	if game.GameType != models.GameTypeCardGame {
		t.Errorf("override should fill empty field: %q", game.GameType)
	}
	if game.LocationRoom != "Study" {
		t.Errorf("location override missing: %q", game.LocationRoom)
	}
}

type fakeMirror struct {
	calls []string
}

func (m *fakeMirror) MirrorImage(ctx context.Context, imageURL, gameID string) string {
	m.calls = append(m.calls, gameID)
	return "https://img.example.com/covers/" + gameID + ".jpg"
}

func TestRunMirrorsCoverImages(t *testing.T) {
	repos := setupTestRepos(t)
	svc := NewService(repos, nil, nil, 0, testLogger())
	mirror := &fakeMirror{}
	svc.SetImageMirror(mirror)

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeCSV,
		CSV:  "title,image_url\nWingspan,https://cf.geekdo-images.com/abc__itemrep/img/pic123.jpg\n",
	})
	if err != nil || result.Imported != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	if len(mirror.calls) != 1 {
		t.Fatalf("mirror calls = %d, want 1", len(mirror.calls))
	}
	game, _ := repos.Game.GetByTitle(context.Background(), "Wingspan")
	if game.ID != mirror.calls[0] {
		t.Errorf("mirrored under %q but stored as %q", mirror.calls[0], game.ID)
	}
	want := "https://img.example.com/covers/" + game.ID + ".jpg"
	if game.ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", game.ImageURL, want)
	}
}

func TestRunSkipsMirrorWithoutImage(t *testing.T) {
	svc := NewService(setupTestRepos(t), nil, nil, 0, testLogger())
	mirror := &fakeMirror{}
	svc.SetImageMirror(mirror)

	result, err := svc.Run(context.Background(), Request{
		Mode: ModeCSV,
		CSV:  "title\nAzul\n",
	})
	if err != nil || result.Imported != 1 {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	if len(mirror.calls) != 0 {
		t.Errorf("mirror calls = %d, want 0", len(mirror.calls))
	}
}

func TestRunEmptyCSVRowsIsSuccess(t *testing.T) {
	svc := NewService(setupTestRepos(t), nil, nil, 0, testLogger())
	result, err := svc.Run(context.Background(), Request{Mode: ModeCSV, CSV: "title\n"})
	if err != nil {
		t.Fatalf("header-only csv should be an empty success: %v", err)
	}
	if result.Imported != 0 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
}

func ExampleParseCSV() {
	headers, rows := ParseCSV("title,publisher\nWingspan,Stonemaier Games\n")
	fmt.Println(headers[0], rows[0]["publisher"])
	// Output: title Stonemaier Games
}
