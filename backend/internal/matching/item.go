package matching

import (
	"strings"
	"time"
)

// Category is the kind of report.
type Category string

const (
	CategoryLost  Category = "Lost"
	CategoryFound Category = "Found"
)

// Opposite returns the category a report of this kind is matched against.
func (c Category) Opposite() Category {
	if strings.EqualFold(string(c), string(CategoryLost)) {
		return CategoryFound
	}
	return CategoryLost
}

// Status is the lifecycle flag of a report. The scorer ignores it.
type Status string

const (
	StatusOpen     Status = "Open"
	StatusResolved Status = "Resolved"
)

// Item is the read-only view of a report the engine scores.
type Item struct {
	ID           string     `json:"id"`
	Category     Category   `json:"category"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	LastSeenTime *time.Time `json:"last_seen_time,omitempty"`
	Status       Status     `json:"status,omitempty"`
}

// hasLastSeen reports whether the item carries a usable timestamp.
func (i Item) hasLastSeen() bool {
	return i.LastSeenTime != nil && !i.LastSeenTime.IsZero()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads a last-seen time. Blank or unparseable input yields
// nil, which scores the same as a missing timestamp.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// MatchResult is the outcome of scoring one (target, candidate) pair.
type MatchResult struct {
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
	FoundItem Item     `json:"found_item"`
}
