// internal/discovery/scoring.go

package discovery

import "time"

const (
	SignalSameInstitution = "same_institution"
	SignalInterestOverlap = "interest_overlap"
	SignalRecentActivity  = "recent_activity"
)

// Signal awards non-negative points to a candidate relative to the requester.
// A signal must tolerate nil or empty fields on either profile.
type Signal interface {
	Name() string
	Score(requester, candidate *UserProfile, now time.Time) int
}

// SameInstitution rewards candidates attending the requester's university
type SameInstitution struct {
	Points int
}

func (s SameInstitution) Name() string { return SignalSameInstitution }

func (s SameInstitution) Score(requester, candidate *UserProfile, _ time.Time) int {
	mine, theirs := deref(requester.University), deref(candidate.University)
	if mine == "" || theirs == "" || mine != theirs {
		return 0
	}
	return s.Points
}

// InterestOverlap rewards each distinct interest tag both profiles share.
// Tags must match exactly, case and whitespace included.
type InterestOverlap struct {
	PointsPerInterest int
}

func (s InterestOverlap) Name() string { return SignalInterestOverlap }

func (s InterestOverlap) Score(requester, candidate *UserProfile, _ time.Time) int {
	return s.PointsPerInterest * countSharedInterests(requester.Interests, candidate.Interests)
}

// RecentActivity rewards candidates active within Window of the scoring instant.
// A timestamp in the future counts as active.
type RecentActivity struct {
	Points int
	Window time.Duration
}

func (s RecentActivity) Name() string { return SignalRecentActivity }

func (s RecentActivity) Score(_, candidate *UserProfile, now time.Time) int {
	if candidate.LastActiveAt == nil || candidate.LastActiveAt.IsZero() {
		return 0
	}
	if now.Sub(*candidate.LastActiveAt) > s.Window {
		return 0
	}
	return s.Points
}

// Weights are the point values of the built-in signals
type Weights struct {
	SameInstitution      int
	PerSharedInterest    int
	RecentActivity       int
	RecentActivityWindow time.Duration
}

// DefaultWeights are the production scoring weights
func DefaultWeights() Weights {
	return Weights{
		SameInstitution:      10,
		PerSharedInterest:    2,
		RecentActivity:       5,
		RecentActivityWindow: 24 * time.Hour,
	}
}

// Scorer sums independent signals
type Scorer struct {
	signals []Signal
}

// NewScorer builds a scorer from the built-in signals
func NewScorer(w Weights) *Scorer {
	return NewScorerWithSignals(
		SameInstitution{Points: w.SameInstitution},
		InterestOverlap{PointsPerInterest: w.PerSharedInterest},
		RecentActivity{Points: w.RecentActivity, Window: w.RecentActivityWindow},
	)
}

// NewScorerWithSignals builds a scorer from an explicit signal list
func NewScorerWithSignals(signals ...Signal) *Scorer {
	return &Scorer{signals: signals}
}

// Score returns the total and the non-zero per-signal breakdown
func (s *Scorer) Score(requester, candidate *UserProfile, now time.Time) (int, []SignalContribution) {
	total := 0
	var contributions []SignalContribution

	for _, sig := range s.signals {
		points := safeScore(sig, requester, candidate, now)
		if points <= 0 {
			continue
		}
		total += points
		contributions = append(contributions, SignalContribution{Signal: sig.Name(), Points: points})
	}

	return total, contributions
}

// safeScore keeps one misbehaving signal from aborting the batch
func safeScore(sig Signal, requester, candidate *UserProfile, now time.Time) (points int) {
	defer func() {
		if recover() != nil {
			points = 0
		}
	}()
	return sig.Score(requester, candidate, now)
}

func countSharedInterests(mine, theirs []string) int {
	if len(mine) == 0 || len(theirs) == 0 {
		return 0
	}

	own := make(map[string]struct{}, len(mine))
	for _, tag := range mine {
		own[tag] = struct{}{}
	}

	shared := make(map[string]struct{})
	for _, tag := range theirs {
		if _, ok := own[tag]; ok {
			shared[tag] = struct{}{}
		}
	}

	return len(shared)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
