package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/cache"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/notify"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")

type MatchServiceConfig struct {
	Threshold      int
	HighConfidence int
	CacheTTL       time.Duration
}

// MatchOptions tunes a single GetMatches call.
type MatchOptions struct {
	// Threshold overrides the configured minimum score. Custom thresholds
	// bypass the cache.
	Threshold   *int
	BypassCache bool
}

// MatchListing is a target report with its ranked candidates.
type MatchListing struct {
	Target  repository.Item        `json:"target"`
	Matches []matching.MatchResult `json:"matches"`
	Cached  bool                   `json:"cached"`
}

// RefreshSummary reports what a RefreshOpenMatches pass did.
type RefreshSummary struct {
	Targets   int `json:"targets"`
	Matched   int `json:"matched"`
	Announced int `json:"announced"`
}

type MatchService struct {
	items         CandidateStore
	notifications NotificationCreator
	notifier      notify.Notifier
	cache         cache.MatchCache
	matcher       *matching.Matcher
	cfg           MatchServiceConfig
	now           func() time.Time

	mu        sync.Mutex
	announced map[string]struct{}
}

func NewMatchService(items CandidateStore, notifications NotificationCreator, notifier notify.Notifier, matchCache cache.MatchCache, matcher *matching.Matcher, cfg MatchServiceConfig) *MatchService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if matchCache == nil {
		matchCache = cache.NoopCache{}
	}
	if matcher == nil {
		matcher = matching.Default()
	}
	return &MatchService{
		items:         items,
		notifications: notifications,
		notifier:      notifier,
		cache:         matchCache,
		matcher:       matcher,
		cfg:           cfg,
		now:           time.Now,
		announced:     make(map[string]struct{}),
	}
}

// GetMatches ranks the open reports of the opposite category against the
// target. When the best score reaches the high-confidence threshold the
// owner is notified and a match event is published, once per pair.
func (s *MatchService) GetMatches(ctx context.Context, id uuid.UUID, opts MatchOptions) (*MatchListing, error) {
	listing, _, err := s.getMatches(ctx, id, opts)
	return listing, err
}

func (s *MatchService) getMatches(ctx context.Context, id uuid.UUID, opts MatchOptions) (*MatchListing, bool, error) {
	threshold := s.cfg.Threshold
	useCache := !opts.BypassCache
	if opts.Threshold != nil {
		if *opts.Threshold < 0 || *opts.Threshold > 100 {
			return nil, false, ErrInvalidThreshold
		}
		threshold = *opts.Threshold
		useCache = useCache && threshold == s.cfg.Threshold
	}

	target, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		cached, ok, err := s.cache.GetMatches(ctx, id.String())
		if err != nil {
			logger.Warn().Err(err).Str("item_id", id.String()).Msg("match cache read failed")
		} else if ok {
			return &MatchListing{Target: *target, Matches: cached, Cached: true}, false, nil
		}
	}

	pool, err := s.items.ListCandidates(ctx, target.Category.Opposite(), matching.StatusOpen)
	if err != nil {
		return nil, false, fmt.Errorf("list candidates: %w", err)
	}

	listing, announced := s.rank(ctx, *target, repository.MatchItems(pool), threshold)
	return listing, announced, nil
}

// rank scores target against pool, caches default-threshold results and
// announces a high-confidence leader.
func (s *MatchService) rank(ctx context.Context, target repository.Item, pool []matching.Item, threshold int) (*MatchListing, bool) {
	targetItem := target.MatchItem()
	results := s.matcher.FindMatches(&targetItem, pool, threshold)

	if threshold == s.cfg.Threshold {
		if err := s.cache.SetMatches(ctx, target.ID.String(), results, s.cfg.CacheTTL); err != nil {
			logger.Warn().Err(err).Str("item_id", target.ID.String()).Msg("match cache write failed")
		}
	}

	announced := false
	if top, ok := matching.Best(results); ok && top.Score >= s.cfg.HighConfidence {
		announced = s.announce(ctx, target, top)
	}

	return &MatchListing{Target: target, Matches: results}, announced
}

// announce notifies about a high-confidence pair unless it was already
// announced by this process or, with Redis configured, by any process.
// The pair stays unannounced when the owner notification cannot be stored.
func (s *MatchService) announce(ctx context.Context, target repository.Item, top matching.MatchResult) bool {
	key := target.ID.String() + ":" + top.FoundItem.ID

	s.mu.Lock()
	_, seen := s.announced[key]
	s.announced[key] = struct{}{}
	s.mu.Unlock()
	if seen {
		return false
	}

	first, err := s.cache.MarkAnnounced(ctx, target.ID.String(), top.FoundItem.ID)
	if err != nil {
		logger.Warn().Err(err).Str("item_id", target.ID.String()).Msg("failed to record match announcement")
	} else if !first {
		return false
	}

	recipient := target.UserEmail
	if _, err := s.notifications.CreateNotification(ctx, repository.CreateNotificationRequest{
		Type:           repository.NotificationMatch,
		Title:          "High Confidence Match!",
		Message:        fmt.Sprintf("We found a %d%% match for your %q.", top.Score, target.Title),
		Link:           "/matches",
		RecipientEmail: &recipient,
	}); err != nil {
		logger.Warn().Err(err).Str("item_id", target.ID.String()).Msg("failed to create match notification")
		s.forget(ctx, key, target.ID.String(), top.FoundItem.ID)
		return false
	}

	event := notify.NewMatchEvent(target.MatchItem(), top, s.now())
	if err := s.notifier.NotifyMatch(ctx, event); err != nil {
		logger.Warn().Err(err).Str("item_id", target.ID.String()).Msg("match event delivery failed")
	}

	logger.Info().
		Str("item_id", event.TargetID).
		Str("candidate_id", event.CandidateID).
		Int("score", event.Score).
		Msg("high confidence match announced")
	return true
}

func (s *MatchService) forget(ctx context.Context, key, targetID, candidateID string) {
	s.mu.Lock()
	delete(s.announced, key)
	s.mu.Unlock()
	if err := s.cache.ClearAnnounced(ctx, targetID, candidateID); err != nil {
		logger.Warn().Err(err).Str("item_id", targetID).Msg("failed to clear match announcement")
	}
}

// ScorePair scores a lost/found pair directly, with no category checks.
func (s *MatchService) ScorePair(lost, found matching.Item) matching.MatchResult {
	return s.matcher.CalculateMatchScore(lost, found)
}

// RefreshOpenMatches recomputes matches for every open report, bypassing
// the cache. The open pool is loaded once and shared by all targets.
func (s *MatchService) RefreshOpenMatches(ctx context.Context) (RefreshSummary, error) {
	var summary RefreshSummary

	open, err := s.items.ListCandidates(ctx, "", matching.StatusOpen)
	if err != nil {
		return summary, fmt.Errorf("list open items: %w", err)
	}

	pools := make(map[matching.Category][]matching.Item, 2)
	for _, item := range open {
		category, err := ParseCategory(string(item.Category))
		if err != nil {
			continue
		}
		pools[category] = append(pools[category], item.MatchItem())
	}

	for _, item := range open {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Targets++

		listing, announced := s.rank(ctx, item, pools[item.Category.Opposite()], s.cfg.Threshold)
		if len(listing.Matches) > 0 {
			summary.Matched++
		}
		if announced {
			summary.Announced++
		}
	}

	return summary, nil
}
