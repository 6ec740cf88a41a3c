package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// GameHandler serves the public catalog.
type GameHandler struct {
	repos *repository.Repositories
}

// NewGameHandler creates a game handler.
func NewGameHandler(repos *repository.Repositories) *GameHandler {
	return &GameHandler{repos: repos}
}

// ListGamesInput carries paging parameters.
type ListGamesInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Page size"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Page offset"`
}

// GameWithMechanics is a catalog entry with its mechanics resolved.
type GameWithMechanics struct {
	models.Game
	Mechanics []string `json:"mechanics"`
}

// ListGamesOutput is the paged catalog response.
type ListGamesOutput struct {
	Body struct {
		Games []GameWithMechanics `json:"games"`
		Total int                 `json:"total"`
	}
}

// ListGames returns a page of the catalog ordered by title.
func (h *GameHandler) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	games, err := h.repos.Game.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list games")
	}
	total, err := h.repos.Game.Count(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to count games")
	}

	out := &ListGamesOutput{}
	out.Body.Total = total
	out.Body.Games = make([]GameWithMechanics, 0, len(games))
	for _, g := range games {
		out.Body.Games = append(out.Body.Games, GameWithMechanics{
			Game:      *g,
			Mechanics: h.mechanicNames(ctx, g.ID),
		})
	}
	return out, nil
}

// GetGameInput identifies a game by slug.
type GetGameInput struct {
	Slug string `path:"slug" doc:"URL slug of the game"`
}

// GetGameOutput is a single catalog entry.
type GetGameOutput struct {
	Body GameWithMechanics
}

// GetGame returns one game by slug.
func (h *GameHandler) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	game, err := h.repos.Game.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load game")
	}
	if game == nil {
		return nil, huma.Error404NotFound("game not found")
	}
	return &GetGameOutput{Body: GameWithMechanics{
		Game:      *game,
		Mechanics: h.mechanicNames(ctx, game.ID),
	}}, nil
}

func (h *GameHandler) mechanicNames(ctx context.Context, gameID string) []string {
	mechanics, err := h.repos.Game.MechanicsForGame(ctx, gameID)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(mechanics))
	for _, m := range mechanics {
		names = append(names, m.Name)
	}
	return names
}
