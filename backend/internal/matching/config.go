package matching

import "time"

// Config defines weights, cutoffs and vocabulary for lost/found matching.
// A Config is built once and never mutated afterwards; a Matcher holding it
// can be shared across goroutines.
type Config struct {
	CategoryWeight    int
	LocationWeight    int
	TitleWeight       int
	DescriptionWeight int
	TimeWeight        int

	// LocationCutoff is the Jaccard similarity a location pair must exceed
	// before it scores anything.
	LocationCutoff float64

	// Time windows: within CloseWindow earns TimeWeight, within NearWindow
	// earns NearWindowPoints.
	CloseWindow      time.Duration
	NearWindow       time.Duration
	NearWindowPoints int

	MinTokenLength int
	StopWords      map[string]struct{}

	DefaultThreshold        int
	HighConfidenceThreshold int
	MaxScore                int
}

// defaultStopWords are excluded from keyword sets. The domain words (lost,
// found, item, missing, looking) appear in nearly every post title.
var defaultStopWords = []string{
	"a", "an", "the", "and", "or", "but", "is", "are", "was", "were",
	"in", "on", "at", "to", "for", "of", "with", "by", "my", "your",
	"lost", "found", "item", "missing", "looking",
}

// DefaultConfig returns the production weighting. Full weights sum to 100.
func DefaultConfig() Config {
	stop := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}

	return Config{
		CategoryWeight:    30,
		LocationWeight:    25,
		TitleWeight:       20,
		DescriptionWeight: 15,
		TimeWeight:        10,

		LocationCutoff: 0.3,

		CloseWindow:      24 * time.Hour,
		NearWindow:       48 * time.Hour,
		NearWindowPoints: 5,

		MinTokenLength: 3,
		StopWords:      stop,

		DefaultThreshold:        30,
		HighConfidenceThreshold: 70,
		MaxScore:                100,
	}
}

// TotalWeight returns the score a pair earns when every signal fires in full.
func (c Config) TotalWeight() int {
	return c.CategoryWeight + c.LocationWeight + c.TitleWeight + c.DescriptionWeight + c.TimeWeight
}

// IsStopWord reports whether word is excluded from token sets.
func (c Config) IsStopWord(word string) bool {
	_, ok := c.StopWords[word]
	return ok
}
