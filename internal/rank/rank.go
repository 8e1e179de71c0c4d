// Package rank selects leaderboard entries: threshold-filter, sort, truncate.
package rank

import (
	"sort"

	"github.com/slurve/dugout/internal/model"
)

// Minimum-sample thresholds. An entry below its threshold never appears on a
// leaderboard, no matter how good its rate stats look on a tiny sample.
const (
	MinCaptainDecisions = 5  // wins + losses
	MinPitcherOuts      = 12 // four innings
	MinBatterAtBats     = 5
)

// Cutoffs per leaderboard.
const (
	TopCaptains = 3
	TopPitchers = 6
	TopBatters  = 6
)

// Candidate is one summed (character, category) bucket under consideration.
type Candidate struct {
	Name string
	Line model.Summary
}

// top filters by threshold, stable-sorts by less with display name as the
// documented tie-break, and truncates to n. Fewer qualifiers than n return
// unpadded.
func top(cands []Candidate, n int, qualifies func(model.Summary) bool, less func(a, b Candidate) bool) []model.RankedEntry {
	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if qualifies(c.Line) {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if less(kept[i], kept[j]) {
			return true
		}
		if less(kept[j], kept[i]) {
			return false
		}
		return kept[i].Name < kept[j].Name
	})
	if len(kept) > n {
		kept = kept[:n]
	}
	out := make([]model.RankedEntry, len(kept))
	for i, c := range kept {
		out[i] = model.Card(c.Name, c.Line)
	}
	return out
}

// Captains returns the top captains by win rate, descending.
func Captains(cands []Candidate) []model.RankedEntry {
	return top(cands, TopCaptains,
		func(s model.Summary) bool { return s.Decisions() >= MinCaptainDecisions },
		func(a, b Candidate) bool { return a.Line.WinRate() > b.Line.WinRate() },
	)
}

// Pitchers returns the top pitchers by ERA, ascending. The negative
// no-recorded-outs sentinel is "unbounded bad" and must sort last, behind
// every real ERA.
func Pitchers(cands []Candidate) []model.RankedEntry {
	return top(cands, TopPitchers,
		func(s model.Summary) bool { return s.OutsPitched >= MinPitcherOuts },
		func(a, b Candidate) bool { return eraSortValue(a.Line) < eraSortValue(b.Line) },
	)
}

// Batters returns the top batters by RBI, descending.
func Batters(cands []Candidate) []model.RankedEntry {
	return top(cands, TopBatters,
		func(s model.Summary) bool { return s.AtBats >= MinBatterAtBats },
		func(a, b Candidate) bool { return a.Line.RBI > b.Line.RBI },
	)
}

// eraSortValue orders real ERAs ascending and pushes sentinel ERAs (negative,
// meaning runs allowed without a recorded out) behind them, worse sentinels
// last.
func eraSortValue(s model.Summary) float64 {
	era := s.ERA()
	if era < 0 {
		// -1 run maps just past the worst representable real ERA;
		// more runs map further out.
		return 1e9 - era
	}
	return era
}
