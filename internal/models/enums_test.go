package models

import (
	"math"
	"testing"
)

func TestMapWeightToDifficulty(t *testing.T) {
	tests := []struct {
		weight float64
		want   Difficulty
	}{
		{0, DifficultyMedium},
		{-1, DifficultyMedium},
		{math.NaN(), DifficultyMedium},
		{1.0, DifficultyVeryEasy},
		{1.49, DifficultyVeryEasy},
		{1.5, DifficultyEasy},
		{2.49, DifficultyEasy},
		{2.5, DifficultyMedium},
		{3.49, DifficultyMedium},
		{3.5, DifficultyHard},
		{4.49, DifficultyHard},
		{4.5, DifficultyVeryHard},
		{5.0, DifficultyVeryHard},
	}

	for _, tt := range tests {
		if got := MapWeightToDifficulty(tt.weight); got != tt.want {
			t.Errorf("MapWeightToDifficulty(%v) = %q, want %q", tt.weight, got, tt.want)
		}
	}
}

func TestMapMinutesToPlayTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    PlayTime
	}{
		{0, PlayTime45To60},
		{-30, PlayTime45To60},
		{10, PlayTimeUnder15},
		{15, PlayTimeUnder15},
		{16, PlayTime15To30},
		{30, PlayTime15To30},
		{45, PlayTime30To45},
		{60, PlayTime45To60},
		{90, PlayTime60To120},
		{120, PlayTime60To120},
		{180, PlayTime120To180},
		{181, PlayTimeOver180},
		{600, PlayTimeOver180},
	}

	for _, tt := range tests {
		if got := MapMinutesToPlayTime(tt.minutes); got != tt.want {
			t.Errorf("MapMinutesToPlayTime(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

// Larger input must never map to a lower bucket.
func TestMapWeightMonotonic(t *testing.T) {
	prev := -1
	for w := 0.1; w <= 5.0; w += 0.1 {
		idx := DifficultyIndex(MapWeightToDifficulty(w))
		if idx < 0 {
			t.Fatalf("MapWeightToDifficulty(%v) outside vocabulary", w)
		}
		if idx < prev {
			t.Fatalf("difficulty bucket decreased at weight %v", w)
		}
		prev = idx
	}
}

func TestMapMinutesMonotonic(t *testing.T) {
	prev := -1
	for m := 1; m <= 400; m++ {
		idx := PlayTimeIndex(MapMinutesToPlayTime(m))
		if idx < 0 {
			t.Fatalf("MapMinutesToPlayTime(%d) outside vocabulary", m)
		}
		if idx < prev {
			t.Fatalf("play time bucket decreased at %d minutes", m)
		}
		prev = idx
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &CandidateGame{Title: "Wingspan"}
	c.ApplyDefaults()

	if c.Difficulty != DifficultyMedium {
		t.Errorf("difficulty = %q, want default", c.Difficulty)
	}
	if c.PlayTime != PlayTime45To60 {
		t.Errorf("play time = %q, want default", c.PlayTime)
	}
	if c.GameType != GameTypeBoardGame {
		t.Errorf("game type = %q, want default", c.GameType)
	}
	if c.MinPlayers != 1 || c.MaxPlayers != 1 {
		t.Errorf("players = %d-%d, want 1-1", c.MinPlayers, c.MaxPlayers)
	}

	// Existing values are preserved
	c2 := &CandidateGame{Title: "Brass", Difficulty: DifficultyHard, MinPlayers: 2, MaxPlayers: 4}
	c2.ApplyDefaults()
	if c2.Difficulty != DifficultyHard || c2.MinPlayers != 2 || c2.MaxPlayers != 4 {
		t.Error("ApplyDefaults overwrote existing values")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Wingspan", "wingspan"},
		{"Brass: Birmingham", "brass-birmingham"},
		{"  7 Wonders  ", "7-wonders"},
		{"Tzolk'in: The Mayan Calendar", "tzolk-in-the-mayan-calendar"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
