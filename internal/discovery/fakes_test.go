package discovery

import (
	"context"
	"sort"
	"sync"
	"time"
)

type fakeProfileStore struct {
	profiles   map[string]*UserProfile
	getErr     error
	findErr    error
	findCalls  int
	lastLimit  int
	lastExcl   ExclusionSet
	ignoreExcl bool
}

func newFakeProfileStore(profiles ...*UserProfile) *fakeProfileStore {
	f := &fakeProfileStore{profiles: make(map[string]*UserProfile)}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// FindEligible mirrors the SQL filter and ordering of the Postgres repository
func (f *fakeProfileStore) FindEligible(ctx context.Context, excluding ExclusionSet, limit int) ([]*UserProfile, error) {
	f.findCalls++
	f.lastLimit = limit
	f.lastExcl = excluding

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.findErr != nil {
		return nil, f.findErr
	}

	var out []*UserProfile
	for _, p := range f.profiles {
		if !p.Eligible() {
			continue
		}
		if !f.ignoreExcl && excluding.Contains(p.UserID) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastActiveAt, out[j].LastActiveAt
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRelationshipStore struct {
	mu sync.Mutex

	swipes   []SwipeRecord
	blocks   []BlockRecord
	swipeErr error
	blockErr error
	byErr    error
	calls    int
}

func newFakeRelationshipStore() *fakeRelationshipStore {
	return &fakeRelationshipStore{}
}

func (f *fakeRelationshipStore) swipe(swiper string, swiped ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range swiped {
		f.swipes = append(f.swipes, SwipeRecord{SwiperID: swiper, SwipedID: id, CreatedAt: testNow})
	}
}

func (f *fakeRelationshipStore) block(blocker string, blocked ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range blocked {
		f.blocks = append(f.blocks, BlockRecord{BlockerID: blocker, BlockedID: id, CreatedAt: testNow})
	}
}

func (f *fakeRelationshipStore) GetSwipedIDs(ctx context.Context, swiperID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.swipeErr != nil {
		return nil, f.swipeErr
	}
	var ids []string
	for _, s := range f.swipes {
		if s.SwiperID == swiperID {
			ids = append(ids, s.SwipedID)
		}
	}
	return ids, nil
}

func (f *fakeRelationshipStore) GetBlockedByMe(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.blockErr != nil {
		return nil, f.blockErr
	}
	var ids []string
	for _, b := range f.blocks {
		if b.BlockerID == userID {
			ids = append(ids, b.BlockedID)
		}
	}
	return ids, nil
}

func (f *fakeRelationshipStore) GetBlockersOfMe(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.byErr != nil {
		return nil, f.byErr
	}
	var ids []string
	for _, b := range f.blocks {
		if b.BlockedID == userID {
			ids = append(ids, b.BlockerID)
		}
	}
	return ids, nil
}

type fakeFeedCache struct {
	feeds       map[string][]*RankedCandidate
	getErr      error
	setErr      error
	sets        int
	deletes     int
	getDeadline bool
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{feeds: make(map[string][]*RankedCandidate)}
}

func (c *fakeFeedCache) Get(ctx context.Context, userID string) ([]*RankedCandidate, bool, error) {
	_, c.getDeadline = ctx.Deadline()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	feed, ok := c.feeds[userID]
	return feed, ok, nil
}

func (c *fakeFeedCache) Set(ctx context.Context, userID string, feed []*RankedCandidate) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.feeds[userID] = feed
	return nil
}

func (c *fakeFeedCache) Delete(ctx context.Context, userID string) error {
	c.deletes++
	delete(c.feeds, userID)
	return nil
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func hoursAgo(h int) *time.Time { return timePtr(testNow.Add(-time.Duration(h) * time.Hour)) }

func profile(id string) *UserProfile {
	return &UserProfile{
		UserID:            id,
		DisplayName:       id,
		IsVisible:         true,
		IsProfileComplete: true,
	}
}

func feedIDs(feed []*RankedCandidate) []string {
	ids := make([]string, 0, len(feed))
	for _, c := range feed {
		ids = append(ids, c.Profile.UserID)
	}
	return ids
}
