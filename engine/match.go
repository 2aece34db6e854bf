package engine

// MatchResult is the folded state of a match after some number of holes.
type MatchResult struct {
	HolesUp     int  `json:"holesUp"`
	Winner      Side `json:"-"`
	HolesPlayed int  `json:"holesPlayed"`
}

// AggregateMatch folds an ordered hole-result sequence into a signed tally:
// +1 per A win, -1 per B win, 0 per tie. The state after N holes is just the
// aggregate of the first N results, so incremental views need no extra state.
func AggregateMatch(results []HoleResult) MatchResult {
	tally := 0
	for _, r := range results {
		switch r.Winner {
		case SideA:
			tally++
		case SideB:
			tally--
		}
	}

	m := MatchResult{HolesPlayed: len(results)}
	switch {
	case tally > 0:
		m.HolesUp = tally
		m.Winner = SideA
	case tally < 0:
		m.HolesUp = -tally
		m.Winner = SideB
	}
	return m
}

// MatchState is a convenience for "where does this game stand right now":
// hole results and their aggregate over a range of two scorecards.
func MatchState(startHole, endHole int, a, b Scorecard) ([]HoleResult, MatchResult) {
	results := HoleResults(startHole, endHole, a, b)
	return results, AggregateMatch(results)
}
