package repository

import (
	"context"
	"testing"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

func testGame(title string) *models.Game {
	return &models.Game{
		Title:      title,
		MinPlayers: 1,
		MaxPlayers: 4,
		Difficulty: models.DifficultyMedium,
		PlayTime:   models.PlayTime45To60,
		GameType:   models.GameTypeBoardGame,
	}
}

func TestGameRepository_CreateAndGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	game := testGame("Wingspan")
	game.Description = "Engine-building birds."
	game.BGGID = "266192"

	if err := repos.Game.Create(ctx, game); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	if game.ID == "" {
		t.Error("expected ID to be generated")
	}
	if game.Slug != "wingspan" {
		t.Errorf("slug = %q, want %q", game.Slug, "wingspan")
	}

	fetched, err := repos.Game.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected game, got nil")
	}
	if fetched.Title != "Wingspan" || fetched.Description != "Engine-building birds." {
		t.Errorf("fetched = %+v", fetched)
	}
	if fetched.Difficulty != models.DifficultyMedium {
		t.Errorf("difficulty = %q", fetched.Difficulty)
	}
	if fetched.BGGID != "266192" {
		t.Errorf("bgg_id = %q", fetched.BGGID)
	}
}

func TestGameRepository_GetByTitleIsCaseSensitive(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	if err := repos.Game.Create(ctx, testGame("Wingspan")); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repos.Game.GetByTitle(ctx, "Wingspan")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if found == nil {
		t.Fatal("expected exact-title match")
	}

	miss, err := repos.Game.GetByTitle(ctx, "wingspan")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if miss != nil {
		t.Error("lower-cased title should not match")
	}
}

func TestGameRepository_GetByTitleMiss(t *testing.T) {
	repos := setupTestRepos(t)

	game, err := repos.Game.GetByTitle(context.Background(), "Nonexistent")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if game != nil {
		t.Error("expected nil for missing title")
	}
}

func TestGameRepository_SaleFields(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	price := 35.0
	cond := models.SaleConditionLikeNew
	game := testGame("Azul")
	game.IsForSale = true
	game.SalePrice = &price
	game.SaleCondition = &cond
	game.LocationRoom = "Study"
	game.LocationShelf = "B2"

	if err := repos.Game.Create(ctx, game); err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := repos.Game.GetBySlug(ctx, "azul")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected game")
	}
	if !fetched.IsForSale || fetched.SalePrice == nil || *fetched.SalePrice != 35.0 {
		t.Errorf("sale fields not round-tripped: %+v", fetched)
	}
	if fetched.SaleCondition == nil || *fetched.SaleCondition != models.SaleConditionLikeNew {
		t.Errorf("sale condition = %v", fetched.SaleCondition)
	}
	if fetched.LocationRoom != "Study" || fetched.LocationShelf != "B2" {
		t.Errorf("location = %q/%q", fetched.LocationRoom, fetched.LocationShelf)
	}
}

func TestGameRepository_LinkMechanic(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	game := testGame("Agricola")
	if err := repos.Game.Create(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}

	mech := &models.Mechanic{Name: "Worker Placement"}
	if err := repos.Mechanic.Create(ctx, mech); err != nil {
		t.Fatalf("create mechanic: %v", err)
	}

	if err := repos.Game.LinkMechanic(ctx, game.ID, mech.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	// Linking again must not error
	if err := repos.Game.LinkMechanic(ctx, game.ID, mech.ID); err != nil {
		t.Fatalf("re-link: %v", err)
	}

	mechanics, err := repos.Game.MechanicsForGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("MechanicsForGame: %v", err)
	}
	if len(mechanics) != 1 || mechanics[0].Name != "Worker Placement" {
		t.Errorf("mechanics = %+v", mechanics)
	}
}

func TestGameRepository_ListAndCount(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	for _, title := range []string{"Carcassonne", "Azul", "Brass: Birmingham"} {
		if err := repos.Game.Create(ctx, testGame(title)); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	games, err := repos.Game.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("len = %d, want 3", len(games))
	}
	// Ordered by title
	if games[0].Title != "Azul" {
		t.Errorf("first = %q, want Azul", games[0].Title)
	}

	count, err := repos.Game.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestGameRepository_ExpansionParent(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	parent := testGame("Wingspan")
	if err := repos.Game.Create(ctx, parent); err != nil {
		t.Fatalf("create parent: %v", err)
	}

	exp := testGame("Wingspan: European Expansion")
	exp.IsExpansion = true
	exp.ParentGameID = &parent.ID
	exp.InBaseGameBox = true
	if err := repos.Game.Create(ctx, exp); err != nil {
		t.Fatalf("create expansion: %v", err)
	}

	fetched, err := repos.Game.GetByID(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !fetched.IsExpansion || fetched.ParentGameID == nil || *fetched.ParentGameID != parent.ID {
		t.Errorf("expansion fields: %+v", fetched)
	}
	if !fetched.InBaseGameBox {
		t.Error("in_base_game_box not persisted")
	}
}
