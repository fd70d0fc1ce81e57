// Package matching scores how likely a "lost" report and a "found" report
// describe the same physical item, and ranks candidate reports for a target.
//
// Everything here is a pure computation over its inputs: no I/O, no shared
// mutable state. Callers own filtering by status and supplying the pool.
package matching

// Matcher applies one Config to token, score and ranking operations.
type Matcher struct {
	cfg Config
}

// NewMatcher binds cfg. The stop word map is copied so later changes to the
// caller's map cannot leak into scoring.
func NewMatcher(cfg Config) *Matcher {
	cfg.StopWords = copyStopWords(cfg.StopWords)
	return &Matcher{cfg: cfg}
}

// Config returns a copy of the matcher's configuration, stop words included.
func (m *Matcher) Config() Config {
	cfg := m.cfg
	cfg.StopWords = copyStopWords(m.cfg.StopWords)
	return cfg
}

func copyStopWords(src map[string]struct{}) map[string]struct{} {
	stop := make(map[string]struct{}, len(src))
	for w := range src {
		stop[w] = struct{}{}
	}
	return stop
}

var defaultMatcher = NewMatcher(DefaultConfig())

// Default returns the matcher built from DefaultConfig.
func Default() *Matcher {
	return defaultMatcher
}

// Tokenize uses the default configuration.
func Tokenize(text string) TokenSet {
	return defaultMatcher.Tokenize(text)
}

// CalculateMatchScore uses the default configuration.
func CalculateMatchScore(lost, found Item) MatchResult {
	return defaultMatcher.CalculateMatchScore(lost, found)
}

// FindMatches uses the default configuration.
func FindMatches(target *Item, pool []Item, threshold int) []MatchResult {
	return defaultMatcher.FindMatches(target, pool, threshold)
}
