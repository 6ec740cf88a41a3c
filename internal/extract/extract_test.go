package extract

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meeplekeep/meeplekeep-api/internal/llm"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMergeDoesNotClobber(t *testing.T) {
	c := &models.CandidateGame{
		Title:       "Wingspan",
		Description: "Existing note from the import file.",
		MinPlayers:  1,
	}
	Merge(c, &GameFacts{
		Title:       "Wingspan (2019)",
		Description: "A model-written summary.",
		MinPlayers:  2,
		MaxPlayers:  5,
		Publisher:   "Stonemaier Games",
	})

	if c.Title != "Wingspan" {
		t.Errorf("title overwritten: %q", c.Title)
	}
	if c.Description != "Existing note from the import file." {
		t.Errorf("description overwritten: %q", c.Description)
	}
	if c.MinPlayers != 1 {
		t.Errorf("min players overwritten: %d", c.MinPlayers)
	}
	if c.MaxPlayers != 5 {
		t.Errorf("max players not filled: %d", c.MaxPlayers)
	}
	if c.Publisher != "Stonemaier Games" {
		t.Errorf("publisher not filled: %q", c.Publisher)
	}
}

func TestMergeEnumValidation(t *testing.T) {
	c := &models.CandidateGame{}
	Merge(c, &GameFacts{
		Difficulty: "impossible",
		PlayTime:   "all day",
		GameType:   "Card Game",
	})
	if c.Difficulty != "" {
		t.Errorf("invalid difficulty accepted: %q", c.Difficulty)
	}
	if c.PlayTime != "" {
		t.Errorf("invalid play time accepted: %q", c.PlayTime)
	}
	if c.GameType != models.GameTypeCardGame {
		t.Errorf("game type = %q", c.GameType)
	}
}

func TestMergeWeightFallback(t *testing.T) {
	c := &models.CandidateGame{}
	Merge(c, &GameFacts{Weight: 3.7})
	if c.Difficulty != models.DifficultyHard {
		t.Errorf("difficulty from weight 3.7 = %q, want %q", c.Difficulty, models.DifficultyHard)
	}
}

func TestMergeNil(t *testing.T) {
	c := &models.CandidateGame{Title: "Azul"}
	Merge(c, nil)
	if c.Title != "Azul" {
		t.Error("nil facts changed candidate")
	}
}

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Tools []struct {
				Function struct {
					Name string `json:"name"`
				} `json:"function"`
			} `json:"tools"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "record_game_facts" {
			t.Errorf("unexpected tools: %+v", req.Tools)
		}
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"tool_calls": [{"function": {
				"name": "record_game_facts",
				"arguments": "{\"title\":\"Azul\",\"min_players\":\"2\",\"max_players\":4,\"difficulty\":\"2 - Easy\",\"mechanics\":[\"Tile Placement\"]}"
			}}]}}]
		}`))
	}))
	defer srv.Close()

	client := llm.NewClient(llm.ProviderOpenAI, "gpt-4o-mini", "k", srv.URL, 5*time.Second, testLogger())
	ex := NewLLMExtractor(client, testLogger())
	facts, err := ex.Extract(context.Background(), "Azul is a tile game...")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if facts.Title != "Azul" {
		t.Errorf("title = %q", facts.Title)
	}
	if facts.MinPlayers != 2 {
		t.Errorf("min players (string-typed) = %d", facts.MinPlayers)
	}
	if facts.MaxPlayers != 4 {
		t.Errorf("max players = %d", facts.MaxPlayers)
	}
	if len(facts.Mechanics) != 1 || facts.Mechanics[0] != "Tile Placement" {
		t.Errorf("mechanics = %v", facts.Mechanics)
	}
}

func TestExtractTruncatesLongPages(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotLen = len(req.Messages[len(req.Messages)-1].Content)
		_, _ = w.Write([]byte(`{"choices": [{"message": {"tool_calls": [{"function": {"name": "record_game_facts", "arguments": "{\"title\":\"X\"}"}}]}}]}`))
	}))
	defer srv.Close()

	client := llm.NewClient(llm.ProviderOpenAI, "gpt-4o-mini", "k", srv.URL, 5*time.Second, testLogger())
	ex := NewLLMExtractor(client, testLogger())
	long := make([]byte, maxPageChars*2)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ex.Extract(context.Background(), string(long)); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if gotLen != maxPageChars {
		t.Errorf("page text length sent = %d, want %d", gotLen, maxPageChars)
	}
}
