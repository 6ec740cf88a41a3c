package models

// Difficulty is the 5-level complexity vocabulary. Values are ordered;
// Difficulties holds them in ascending order.
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "1 - Very Easy"
	DifficultyEasy     Difficulty = "2 - Easy"
	DifficultyMedium   Difficulty = "3 - Medium"
	DifficultyHard     Difficulty = "4 - Hard"
	DifficultyVeryHard Difficulty = "5 - Very Hard"

	DifficultyDefault = DifficultyMedium
)

// Difficulties lists every legal difficulty value, ascending.
var Difficulties = []Difficulty{
	DifficultyVeryEasy,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyHard,
	DifficultyVeryHard,
}

// PlayTime is the 7-bucket playtime vocabulary, ascending.
type PlayTime string

const (
	PlayTimeUnder15  PlayTime = "< 15 Minutes"
	PlayTime15To30   PlayTime = "15-30 Minutes"
	PlayTime30To45   PlayTime = "30-45 Minutes"
	PlayTime45To60   PlayTime = "45-60 Minutes"
	PlayTime60To120  PlayTime = "1-2 Hours"
	PlayTime120To180 PlayTime = "2-3 Hours"
	PlayTimeOver180  PlayTime = "3+ Hours"

	PlayTimeDefault = PlayTime45To60
)

// PlayTimes lists every legal play-time value, ascending.
var PlayTimes = []PlayTime{
	PlayTimeUnder15,
	PlayTime15To30,
	PlayTime30To45,
	PlayTime45To60,
	PlayTime60To120,
	PlayTime120To180,
	PlayTimeOver180,
}

// GameType is the closed game-category vocabulary.
type GameType string

const (
	GameTypeBoardGame   GameType = "Board Game"
	GameTypeCardGame    GameType = "Card Game"
	GameTypeDiceGame    GameType = "Dice Game"
	GameTypePartyGame   GameType = "Party Game"
	GameTypeCoop        GameType = "Cooperative Game"
	GameTypeDeckBuilder GameType = "Deck Builder"
	GameTypeWarGame     GameType = "War Game"
	GameTypeAbstract    GameType = "Abstract Strategy"

	GameTypeDefault = GameTypeBoardGame
)

// GameTypes lists every legal game type.
var GameTypes = []GameType{
	GameTypeBoardGame,
	GameTypeCardGame,
	GameTypeDiceGame,
	GameTypePartyGame,
	GameTypeCoop,
	GameTypeDeckBuilder,
	GameTypeWarGame,
	GameTypeAbstract,
}

// SaleCondition is the closed vocabulary for the condition of a game
// offered for sale.
type SaleCondition string

const (
	SaleConditionNew        SaleCondition = "New in Shrink"
	SaleConditionLikeNew    SaleCondition = "Like New"
	SaleConditionVeryGood   SaleCondition = "Very Good"
	SaleConditionGood       SaleCondition = "Good"
	SaleConditionAcceptable SaleCondition = "Acceptable"
)

// SaleConditions lists every legal sale condition.
var SaleConditions = []SaleCondition{
	SaleConditionNew,
	SaleConditionLikeNew,
	SaleConditionVeryGood,
	SaleConditionGood,
	SaleConditionAcceptable,
}

// DifficultyIndex returns the position of d in the ascending ordering,
// or -1 for a value outside the vocabulary.
func DifficultyIndex(d Difficulty) int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return -1
}

// PlayTimeIndex returns the position of p in the ascending ordering,
// or -1 for a value outside the vocabulary.
func PlayTimeIndex(p PlayTime) int {
	for i, v := range PlayTimes {
		if v == p {
			return i
		}
	}
	return -1
}

// ParseDifficulty matches a free-text value against the vocabulary.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, v := range Difficulties {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ParsePlayTime matches a free-text value against the vocabulary.
func ParsePlayTime(s string) (PlayTime, bool) {
	for _, v := range PlayTimes {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ParseGameType matches a free-text value against the vocabulary.
func ParseGameType(s string) (GameType, bool) {
	for _, v := range GameTypes {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ParseSaleCondition matches a free-text value against the vocabulary.
func ParseSaleCondition(s string) (SaleCondition, bool) {
	for _, v := range SaleConditions {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// MapWeightToDifficulty buckets a BGG complexity weight (1.0-5.0) into
// the difficulty vocabulary. Non-positive or unparsable weights map to
// the default. Monotonic: a larger weight never maps to a lower bucket.
func MapWeightToDifficulty(weight float64) Difficulty {
	switch {
	case weight <= 0 || weight != weight: // NaN compares unequal to itself
		return DifficultyDefault
	case weight < 1.5:
		return DifficultyVeryEasy
	case weight < 2.5:
		return DifficultyEasy
	case weight < 3.5:
		return DifficultyMedium
	case weight < 4.5:
		return DifficultyHard
	default:
		return DifficultyVeryHard
	}
}

// MapMinutesToPlayTime buckets a playing time in minutes into the
// play-time vocabulary. Non-positive input maps to the default; anything
// above 180 lands in the final bucket.
func MapMinutesToPlayTime(minutes int) PlayTime {
	switch {
	case minutes <= 0:
		return PlayTimeDefault
	case minutes <= 15:
		return PlayTimeUnder15
	case minutes <= 30:
		return PlayTime15To30
	case minutes <= 45:
		return PlayTime30To45
	case minutes <= 60:
		return PlayTime45To60
	case minutes <= 120:
		return PlayTime60To120
	case minutes <= 180:
		return PlayTime120To180
	default:
		return PlayTimeOver180
	}
}
