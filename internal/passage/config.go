package passage

import "github.com/abhisek/readquiz/internal/generation"

// Range is an inclusive Gunning Fog band.
type Range struct {
	Low, High float64
}

// Contains reports whether score falls inside the band.
func (r Range) Contains(score float64) bool {
	return score >= r.Low && score <= r.High
}

// Center is the midpoint the calibration loop aims for.
func (r Range) Center() float64 {
	return (r.Low + r.High) / 2
}

// LevelRanges are the target Gunning Fog bands for English passages.
var LevelRanges = map[generation.Level]Range{
	generation.LevelBasic:        {0, 6},
	generation.LevelIntermediate: {6, 12},
	generation.LevelAdvanced:     {12, 25},
}

// WordRanges are the target passage lengths per level.
var WordRanges = map[generation.Level]string{
	generation.LevelBasic:        "150-250",
	generation.LevelIntermediate: "250-400",
	generation.LevelAdvanced:     "400-600",
}

// Config controls the behavior of the Generator.
type Config struct {
	// MaxIterations caps the English calibration loop.
	MaxIterations int

	// MinLength is the shortest acceptable non-English passage, in bytes.
	MinLength int

	// MaxTokens is the token budget per completion. Zero leaves the
	// provider default.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 10,
		MinLength:     20,
		MaxTokens:     1500,
		Temperature:   0.8,
	}
}
