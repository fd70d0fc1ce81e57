package matching

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSet is a set of unique, normalized keywords taken from one text field.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from the given words as-is.
func NewTokenSet(words ...string) TokenSet {
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Len returns the number of tokens in the set.
func (s TokenSet) Len() int {
	return len(s)
}

// Has reports whether token is in the set.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// isWordRune matches the ASCII word class [A-Za-z0-9_].
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// stripPunctuation drops every rune that is neither a word character nor
// whitespace.
func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// Tokenize lowercases text, strips punctuation, splits on whitespace and
// keeps the words that are long enough and not stop words.
func (m *Matcher) Tokenize(text string) TokenSet {
	set := make(TokenSet)
	if text == "" {
		return set
	}

	for _, word := range strings.Fields(stripPunctuation(strings.ToLower(text))) {
		if len(word) < m.cfg.MinTokenLength || m.cfg.IsStopWord(word) {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}
