package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/importer"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// ImportHandler drives the bulk import pipeline.
type ImportHandler struct {
	importSvc *importer.Service
}

// NewImportHandler creates an import handler.
func NewImportHandler(importSvc *importer.Service) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportInput is the admin import request. Exactly one of csv,
// username, urls or url must be set, matching the mode.
type ImportInput struct {
	Body struct {
		Mode     string   `json:"mode" enum:"csv,bgg_collection,bgg_links,single_url" doc:"Import mode"`
		CSV      string   `json:"csv,omitempty" doc:"Raw CSV text for csv mode"`
		Username string   `json:"username,omitempty" doc:"BGG username for bgg_collection mode"`
		URLs     []string `json:"urls,omitempty" doc:"Game page links for bgg_links mode"`
		URL      string   `json:"url,omitempty" doc:"One game page link for single_url mode"`
		Enhance  bool     `json:"enhance,omitempty" doc:"Run AI enhancement on each item"`

		Defaults struct {
			Difficulty    string `json:"difficulty,omitempty"`
			PlayTime      string `json:"play_time,omitempty"`
			GameType      string `json:"game_type,omitempty"`
			LocationRoom  string `json:"location_room,omitempty"`
			LocationShelf string `json:"location_shelf,omitempty"`
		} `json:"defaults,omitempty" doc:"Fallback values for fields the source leaves empty"`
	}
}

// ImportOutput is the per-batch result summary. Completed batches are
// always 200, even when individual items failed.
type ImportOutput struct {
	Body models.ImportResult
}

// Import runs one import batch.
func (h *ImportHandler) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	req := importer.Request{
		Mode:     input.Body.Mode,
		CSV:      input.Body.CSV,
		Username: input.Body.Username,
		URLs:     input.Body.URLs,
		URL:      input.Body.URL,
		Enhance:  input.Body.Enhance,
		Overrides: importer.Overrides{
			Difficulty:    input.Body.Defaults.Difficulty,
			PlayTime:      input.Body.Defaults.PlayTime,
			GameType:      input.Body.Defaults.GameType,
			LocationRoom:  input.Body.Defaults.LocationRoom,
			LocationShelf: input.Body.Defaults.LocationShelf,
		},
	}

	result, err := h.importSvc.Run(ctx, req)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, huma.Error502BadGateway("import failed: " + err.Error())
	}

	if result.Errors == nil {
		result.Errors = []string{}
	}
	if result.Games == nil {
		result.Games = []models.ImportedGame{}
	}
	return &ImportOutput{Body: *result}, nil
}
