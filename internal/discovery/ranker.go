// internal/discovery/ranker.go

package discovery

import (
	"sort"
	"time"
)

// Ranker scores a candidate pool and orders it deterministically
type Ranker struct {
	scorer *Scorer
}

func NewRanker(scorer *Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank scores every admissible candidate in pool and returns them ordered by
// score desc, then last activity desc with never-active last, then user id asc.
// The requester, excluded users, duplicates and ineligible profiles are
// dropped here even if the store let them through.
func (r *Ranker) Rank(requester *UserProfile, exclusions ExclusionSet, pool []*UserProfile, now time.Time) []*RankedCandidate {
	if requester == nil {
		return []*RankedCandidate{}
	}

	ranked := make([]*RankedCandidate, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))

	for _, candidate := range pool {
		if !candidate.Eligible() {
			continue
		}
		if candidate.UserID == "" || candidate.UserID == requester.UserID || exclusions.Contains(candidate.UserID) {
			continue
		}
		if _, dup := seen[candidate.UserID]; dup {
			continue
		}
		seen[candidate.UserID] = struct{}{}

		score, signals := r.scorer.Score(requester, candidate, now)
		ranked = append(ranked, &RankedCandidate{
			Profile: candidate,
			Score:   score,
			Signals: signals,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedBefore(ranked[i], ranked[j])
	})

	return ranked
}

func rankedBefore(a, b *RankedCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}

	at, bt := a.Profile.LastActiveAt, b.Profile.LastActiveAt
	switch {
	case at != nil && bt == nil:
		return true
	case at == nil && bt != nil:
		return false
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.After(*bt)
	}

	return a.Profile.UserID < b.Profile.UserID
}
