// Package notify fans match announcements and item lifecycle events out to
// external systems. Every sender is optional.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
)

// MatchEvent announces a high-confidence pairing between a report and a candidate.
type MatchEvent struct {
	TargetID       string            `json:"target_id"`
	TargetTitle    string            `json:"target_title"`
	TargetCategory matching.Category `json:"target_category"`
	CandidateID    string            `json:"candidate_id"`
	CandidateTitle string            `json:"candidate_title"`
	Score          int               `json:"score"`
	Reasons        []string          `json:"reasons"`
	At             time.Time         `json:"at"`
}

// NewMatchEvent builds the event for a scored pair.
func NewMatchEvent(target matching.Item, result matching.MatchResult, at time.Time) MatchEvent {
	reasons := make([]string, len(result.Reasons))
	copy(reasons, result.Reasons)
	return MatchEvent{
		TargetID:       target.ID,
		TargetTitle:    target.Title,
		TargetCategory: target.Category,
		CandidateID:    result.FoundItem.ID,
		CandidateTitle: result.FoundItem.Title,
		Score:          result.Score,
		Reasons:        reasons,
		At:             at.UTC(),
	}
}

// Summary renders a one-line human description of the event.
func (e MatchEvent) Summary() string {
	s := fmt.Sprintf("%d%% match for %q (%s) with %q", e.Score, e.TargetTitle, e.TargetCategory, e.CandidateTitle)
	if len(e.Reasons) > 0 {
		s += ": " + strings.Join(e.Reasons, ", ")
	}
	return s
}

// Notifier delivers match events.
type Notifier interface {
	NotifyMatch(ctx context.Context, event MatchEvent) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyMatch(ctx context.Context, event MatchEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyMatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards everything.
type Noop struct{}

func (Noop) NotifyMatch(context.Context, MatchEvent) error { return nil }

func (Noop) DispatchItem(context.Context, string, matching.Category, any) error { return nil }
