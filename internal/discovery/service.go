// internal/discovery/service.go

package discovery

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Service builds discovery feeds
type Service interface {
	// GetDiscoveryFeed returns the ranked feed for requesterID. A requester
	// without a profile gets an empty feed. Store failures match
	// ErrStoreUnavailable and are never reported as an empty feed.
	GetDiscoveryFeed(ctx context.Context, requesterID string) ([]*RankedCandidate, error)
	// InvalidateFeed drops any cached feed for requesterID. Cached feeds are
	// always filtered through fresh exclusions, so a block never needs the
	// other party's entry dropped.
	InvalidateFeed(ctx context.Context, requesterID string) error
}

// ServiceConfig tunes the feed pipeline
type ServiceConfig struct {
	PoolSize     int
	QueryTimeout time.Duration
}

// DefaultServiceConfig caps the pool at 50 candidates
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PoolSize:     50,
		QueryTimeout: 5 * time.Second,
	}
}

type service struct {
	profiles ProfileStore
	resolver *Resolver
	ranker   *Ranker
	cache    FeedCache
	cfg      ServiceConfig
	logger   *slog.Logger
	now      func() time.Time
}

// Option customises a Service
type Option func(*service)

// WithCache serves and stores feeds through cache
func WithCache(cache FeedCache) Option {
	return func(s *service) { s.cache = cache }
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

// WithClock overrides the scoring instant source
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(profiles ProfileStore, resolver *Resolver, ranker *Ranker, cfg ServiceConfig, opts ...Option) Service {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultServiceConfig().PoolSize
	}

	s := &service{
		profiles: profiles,
		resolver: resolver,
		ranker:   ranker,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetDiscoveryFeed(ctx context.Context, requesterID string) ([]*RankedCandidate, error) {
	started := time.Now()

	if requesterID == "" {
		return nil, ErrInvalidRequester
	}

	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	if feed, ok := s.cachedFeed(ctx, requesterID); ok {
		// Swipes and blocks written since the feed was cached must still apply.
		exclusions, err := s.resolver.ResolveExclusions(ctx, requesterID)
		if err != nil {
			return nil, s.fail(ctx, started, "resolve exclusions", err)
		}
		recordFeed(outcomeCached, started)
		return withoutExcluded(feed, exclusions), nil
	}

	requester, err := s.profiles.GetByUserID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			recordFeed(outcomeNoProfile, started)
			return []*RankedCandidate{}, nil
		}
		return nil, s.fail(ctx, started, "get requester profile", err)
	}

	exclusions, err := s.resolver.ResolveExclusions(ctx, requesterID)
	if err != nil {
		return nil, s.fail(ctx, started, "resolve exclusions", err)
	}

	pool, err := s.profiles.FindEligible(ctx, exclusions, s.cfg.PoolSize)
	if err != nil {
		return nil, s.fail(ctx, started, "find eligible profiles", err)
	}
	if len(pool) > s.cfg.PoolSize {
		pool = pool[:s.cfg.PoolSize]
	}

	feed := s.ranker.Rank(requester, exclusions, pool, s.now())
	recordRanking(len(pool), feed)

	s.storeFeed(ctx, requesterID, feed)

	s.logger.DebugContext(ctx, "discovery feed built",
		slog.String("requester_id", requesterID),
		slog.Int("excluded", len(exclusions)),
		slog.Int("pool", len(pool)),
		slog.Int("ranked", len(feed)),
	)
	recordFeed(outcomeServed, started)

	return feed, nil
}

func (s *service) InvalidateFeed(ctx context.Context, requesterID string) error {
	if requesterID == "" {
		return ErrInvalidRequester
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, requesterID)
}

func (s *service) fail(ctx context.Context, started time.Time, op string, err error) error {
	err = storeError(op, err)
	recordFeed(outcomeError, started)

	if errors.Is(err, context.Canceled) {
		return err
	}

	recordStoreFailure(op)
	s.logger.ErrorContext(ctx, "discovery store call failed",
		slog.String("op", op),
		slog.Any("err", err),
	)
	return err
}

func (s *service) cachedFeed(ctx context.Context, requesterID string) ([]*RankedCandidate, bool) {
	if s.cache == nil {
		return nil, false
	}

	feed, ok, err := s.cache.Get(ctx, requesterID)
	if err != nil {
		s.logger.WarnContext(ctx, "feed cache read failed, rebuilding",
			slog.String("requester_id", requesterID),
			slog.Any("err", err),
		)
		return nil, false
	}
	recordCacheLookup(ok)
	return feed, ok
}

// withoutExcluded drops candidates that became excluded after feed was cached
func withoutExcluded(feed []*RankedCandidate, exclusions ExclusionSet) []*RankedCandidate {
	out := make([]*RankedCandidate, 0, len(feed))
	for _, c := range feed {
		if c == nil || c.Profile == nil || exclusions.Contains(c.Profile.UserID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *service) storeFeed(ctx context.Context, requesterID string, feed []*RankedCandidate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, requesterID, feed); err != nil {
		s.logger.WarnContext(ctx, "feed cache write failed",
			slog.String("requester_id", requesterID),
			slog.Any("err", err),
		)
	}
}
