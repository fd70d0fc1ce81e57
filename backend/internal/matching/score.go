package matching

import (
	"fmt"
	"math"
	"strings"
)

const (
	ReasonCategory    = "Category match"
	ReasonTitle       = "Title similarity"
	ReasonDescription = "Description details match"
	ReasonTime        = "Time match (<24h)"
)

// LocationReason formats the location reason for a similarity in [0, 1].
func LocationReason(similarity float64) string {
	return fmt.Sprintf("Location Match (%d%%)", roundHalfUp(similarity*100))
}

// CalculateMatchScore compares a lost report against a found report.
//
// Signals are evaluated in a fixed order (category, location, title,
// description, time) and reasons are appended in that order. Missing fields
// contribute nothing; the call never fails.
func (m *Matcher) CalculateMatchScore(lost, found Item) MatchResult {
	score := 0
	reasons := make([]string, 0, 5)

	if categoryMatches(lost, found) {
		score += m.cfg.CategoryWeight
		reasons = append(reasons, ReasonCategory)
	}

	locSim := JaccardSimilarity(m.Tokenize(lost.Location), m.Tokenize(found.Location))
	if locSim > m.cfg.LocationCutoff {
		score += roundHalfUp(locSim * float64(m.cfg.LocationWeight))
		reasons = append(reasons, LocationReason(locSim))
	}

	titleSim := JaccardSimilarity(m.Tokenize(lost.Title), m.Tokenize(found.Title))
	if titleSim > 0 {
		score += roundHalfUp(titleSim * float64(m.cfg.TitleWeight))
		reasons = append(reasons, ReasonTitle)
	}

	descSim := JaccardSimilarity(m.Tokenize(lost.Description), m.Tokenize(found.Description))
	if descSim > 0 {
		score += roundHalfUp(descSim * float64(m.cfg.DescriptionWeight))
		reasons = append(reasons, ReasonDescription)
	}

	hours := hoursBetween(lost, found)
	switch {
	case hours <= m.cfg.CloseWindow.Hours():
		score += m.cfg.TimeWeight
		reasons = append(reasons, ReasonTime)
	case hours <= m.cfg.NearWindow.Hours():
		score += m.cfg.NearWindowPoints
	}

	if score > m.cfg.MaxScore {
		score = m.cfg.MaxScore
	}
	if score < 0 {
		score = 0
	}

	return MatchResult{
		Score:     score,
		Reasons:   reasons,
		FoundItem: found,
	}
}

// categoryMatches is deliberately loose: identical categories, or a lost
// title that mentions the other report's category name. An empty category
// never matches.
func categoryMatches(lost, found Item) bool {
	if found.Category == "" {
		return false
	}
	if lost.Category == found.Category {
		return true
	}
	return strings.Contains(strings.ToLower(lost.Title), strings.ToLower(string(found.Category)))
}

// hoursBetween returns the absolute difference in hours between the two
// last-seen times, or +Inf when either side is missing.
func hoursBetween(a, b Item) float64 {
	if !a.hasLastSeen() || !b.hasLastSeen() {
		return math.Inf(1)
	}
	return math.Abs(a.LastSeenTime.Sub(*b.LastSeenTime).Hours())
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
