// internal/discovery/models.go

package discovery

import "time"

// UserProfile is the subset of a profile the ranker reads, plus card fields
type UserProfile struct {
	UserID            string     `json:"user_id"`
	DisplayName       string     `json:"display_name"`
	Bio               *string    `json:"bio,omitempty"`
	University        *string    `json:"university,omitempty"`
	Interests         []string   `json:"interests,omitempty"`
	LastActiveAt      *time.Time `json:"last_active_at,omitempty"`
	IsVisible         bool       `json:"is_visible"`
	IsProfileComplete bool       `json:"is_profile_complete"`
}

// Eligible reports whether the profile may appear in anyone's feed
func (p *UserProfile) Eligible() bool {
	return p != nil && p.IsVisible && p.IsProfileComplete
}

// SwipeRecord is one directional like or dislike
type SwipeRecord struct {
	SwiperID  string    `db:"swiper_id"`
	SwipedID  string    `db:"swiped_id"`
	IsLike    bool      `db:"is_like"`
	CreatedAt time.Time `db:"created_at"`
}

// BlockRecord is one directional block
type BlockRecord struct {
	BlockerID string    `db:"blocker_id"`
	BlockedID string    `db:"blocked_id"`
	CreatedAt time.Time `db:"created_at"`
}

// SignalContribution is the points a single signal awarded a candidate
type SignalContribution struct {
	Signal string `json:"signal"`
	Points int    `json:"points"`
}

// RankedCandidate is a scored profile in a feed. Request scoped.
type RankedCandidate struct {
	Profile *UserProfile         `json:"profile"`
	Score   int                  `json:"score"`
	Signals []SignalContribution `json:"signals,omitempty"`
}

// ExclusionSet holds user ids that must never be shown to a requester
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from ids, dropping duplicates and blanks
func NewExclusionSet(ids ...string) ExclusionSet {
	s := make(ExclusionSet, len(ids))
	s.Add(ids...)
	return s
}

// Add inserts ids into the set
func (s ExclusionSet) Add(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
}

// Contains reports whether id is excluded
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in no particular order
func (s ExclusionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
