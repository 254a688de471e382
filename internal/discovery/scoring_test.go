package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScorer_AllSignals(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	requester := profile("me")
	requester.University = strPtr("Strathmore")
	requester.Interests = []string{"hiking", "jazz", "chess"}

	candidate := profile("c")
	candidate.University = strPtr("Strathmore")
	candidate.Interests = []string{"jazz", "chess", "football"}
	candidate.LastActiveAt = hoursAgo(2)

	score, signals := scorer.Score(requester, candidate, testNow)

	assert.Equal(t, 10+2*2+5, score)
	assert.Equal(t, []SignalContribution{
		{Signal: SignalSameInstitution, Points: 10},
		{Signal: SignalInterestOverlap, Points: 4},
		{Signal: SignalRecentActivity, Points: 5},
	}, signals)
}

func TestScorer_Additivity21(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	requester := profile("me")
	requester.University = strPtr("U")
	requester.Interests = []string{"a", "b", "c"}

	candidate := profile("c")
	candidate.University = strPtr("U")
	candidate.Interests = []string{"a", "b", "c"}
	candidate.LastActiveAt = timePtr(testNow)

	score, _ := scorer.Score(requester, candidate, testNow)
	assert.Equal(t, 21, score)
}

func TestScorer_ZeroWhenNothingInCommon(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	requester := profile("me")
	requester.University = strPtr("U")
	requester.Interests = []string{"a"}

	candidate := profile("c")
	candidate.University = strPtr("V")
	candidate.Interests = []string{"b"}
	candidate.LastActiveAt = hoursAgo(48)

	score, signals := scorer.Score(requester, candidate, testNow)
	assert.Zero(t, score)
	assert.Empty(t, signals)
}

func TestSameInstitution(t *testing.T) {
	sig := SameInstitution{Points: 10}

	tests := []struct {
		name   string
		mine   *string
		theirs *string
		want   int
	}{
		{name: "equal", mine: strPtr("UoN"), theirs: strPtr("UoN"), want: 10},
		{name: "different", mine: strPtr("UoN"), theirs: strPtr("KU"), want: 0},
		{name: "requester nil", mine: nil, theirs: strPtr("UoN"), want: 0},
		{name: "candidate nil", mine: strPtr("UoN"), theirs: nil, want: 0},
		{name: "both empty", mine: strPtr(""), theirs: strPtr(""), want: 0},
		{name: "both nil", mine: nil, theirs: nil, want: 0},
		{name: "case differs", mine: strPtr("uon"), theirs: strPtr("UoN"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := profile("r"), profile("c")
			r.University, c.University = tt.mine, tt.theirs
			assert.Equal(t, tt.want, sig.Score(r, c, testNow))
		})
	}
}

func TestInterestOverlap(t *testing.T) {
	sig := InterestOverlap{PointsPerInterest: 2}

	tests := []struct {
		name   string
		mine   []string
		theirs []string
		want   int
	}{
		{name: "nil requester", mine: nil, theirs: []string{"a"}, want: 0},
		{name: "nil candidate", mine: []string{"a"}, theirs: nil, want: 0},
		{name: "two shared", mine: []string{"a", "b", "c"}, theirs: []string{"b", "c", "d"}, want: 4},
		{name: "duplicates count once", mine: []string{"a", "a", "b"}, theirs: []string{"a", "a", "a"}, want: 2},
		{name: "case sensitive", mine: []string{"Music"}, theirs: []string{"music"}, want: 0},
		{name: "exact match only", mine: []string{"music ", "tech"}, theirs: []string{"music", "tech"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := profile("r"), profile("c")
			r.Interests, c.Interests = tt.mine, tt.theirs
			assert.Equal(t, tt.want, sig.Score(r, c, testNow))
		})
	}
}

func TestRecentActivity(t *testing.T) {
	sig := RecentActivity{Points: 5, Window: 24 * time.Hour}

	tests := []struct {
		name string
		at   *time.Time
		want int
	}{
		{name: "never active", at: nil, want: 0},
		{name: "zero time", at: &time.Time{}, want: 0},
		{name: "just now", at: timePtr(testNow), want: 5},
		{name: "exactly on the boundary", at: hoursAgo(24), want: 5},
		{name: "just outside", at: timePtr(testNow.Add(-24*time.Hour - time.Second)), want: 0},
		{name: "in the future", at: timePtr(testNow.Add(time.Hour)), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := profile("c")
			c.LastActiveAt = tt.at
			assert.Equal(t, tt.want, sig.Score(profile("r"), c, testNow))
		})
	}
}

type panickySignal struct{}

func (panickySignal) Name() string { return "panicky" }

func (panickySignal) Score(_, _ *UserProfile, _ time.Time) int { panic("bad data") }

func TestScorer_RecoversFromFailingSignal(t *testing.T) {
	scorer := NewScorerWithSignals(panickySignal{}, SameInstitution{Points: 10})

	r, c := profile("r"), profile("c")
	r.University, c.University = strPtr("U"), strPtr("U")

	score, signals := scorer.Score(r, c, testNow)
	assert.Equal(t, 10, score)
	assert.Len(t, signals, 1)
}

func TestScorer_CustomWeights(t *testing.T) {
	scorer := NewScorer(Weights{
		SameInstitution:      1,
		PerSharedInterest:    3,
		RecentActivity:       0,
		RecentActivityWindow: time.Hour,
	})

	r, c := profile("r"), profile("c")
	r.University, c.University = strPtr("U"), strPtr("U")
	r.Interests, c.Interests = []string{"x"}, []string{"x"}
	c.LastActiveAt = timePtr(testNow)

	score, signals := scorer.Score(r, c, testNow)
	assert.Equal(t, 4, score)
	assert.Len(t, signals, 2)
}
