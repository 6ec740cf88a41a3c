package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meeplekeep/meeplekeep-api/internal/llm"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

// maxPageChars bounds how much page text goes into the prompt. BGG
// pages run long; the facts we need are always near the top.
const maxPageChars = 15000

const systemPrompt = `You are a board game librarian. You are given the text of a web page ` +
	`describing a single board game. Extract the game's facts and report them by ` +
	`calling the record_game_facts tool exactly once. Only report facts stated on ` +
	`the page; leave fields you cannot determine empty. Write the description as ` +
	`2-3 sentences of neutral catalog prose.`

// LLMExtractor implements Extractor on top of a chat-completion client.
type LLMExtractor struct {
	client *llm.Client
	logger *slog.Logger
}

// NewLLMExtractor creates an extractor backed by client.
func NewLLMExtractor(client *llm.Client, logger *slog.Logger) *LLMExtractor {
	return &LLMExtractor{client: client, logger: logger}
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// factsTool constrains every vocabulary field to its closed set, so the
// model cannot invent enum values.
func factsTool() llm.Tool {
	return llm.Tool{
		Name:        "record_game_facts",
		Description: "Record the structured facts of the board game described on the page.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string", "description": "The game's title"},
				"description": map[string]any{"type": "string", "description": "2-3 sentence summary of the game"},
				"min_players": map[string]any{"type": "integer"},
				"max_players": map[string]any{"type": "integer"},
				"suggested_age": map[string]any{
					"type":        "string",
					"description": "Minimum recommended age, e.g. 10+",
				},
				"difficulty": map[string]any{
					"type": "string",
					"enum": enumValues(models.Difficulties),
				},
				"play_time": map[string]any{
					"type": "string",
					"enum": enumValues(models.PlayTimes),
				},
				"game_type": map[string]any{
					"type": "string",
					"enum": enumValues(models.GameTypes),
				},
				"mechanics": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"publisher":    map[string]any{"type": "string"},
				"is_expansion": map[string]any{"type": "boolean"},
				"parent_game": map[string]any{
					"type":        "string",
					"description": "Title of the base game if this is an expansion",
				},
				"complexity_weight": map[string]any{
					"type":        "number",
					"description": "BGG complexity weight on a 1-5 scale, if shown",
				},
			},
			"required": []string{"title"},
		},
	}
}

// Extract sends the page text to the model and parses the tool call it
// returns. Errors keep their llm classification so callers can detect
// rate limiting.
func (e *LLMExtractor) Extract(ctx context.Context, pageText string) (*GameFacts, error) {
	if len(pageText) > maxPageChars {
		pageText = pageText[:maxPageChars]
	}

	args, err := e.client.CallTool(ctx, systemPrompt, pageText, factsTool())
	if err != nil {
		return nil, err
	}

	var facts GameFacts
	if err := json.Unmarshal(args, &facts); err != nil {
		return nil, fmt.Errorf("parsing extracted facts: %w", err)
	}
	if facts.Title == "" {
		e.logger.Warn("extraction returned no title", slog.String("model", e.client.Model()))
	}
	return &facts, nil
}
