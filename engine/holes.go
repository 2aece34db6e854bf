// Package engine holds the pure settlement and wagering calculators.
// Everything in here is a synchronous function over immutable inputs:
// no storage, no clocks, safe to call concurrently.
package engine

// Side identifies which side of a head-to-head game a result belongs to.
type Side int8

const (
	SideNone Side = iota // tie, or no winner yet
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	default:
		return "tie"
	}
}

// Scorecard maps hole number to gross strokes. Holes without an entry
// simply have no key; scorecards are sparse while a round is in progress.
type Scorecard map[int]int

// HoleResult is the outcome of one hole between two players.
type HoleResult struct {
	Hole     int  `json:"hole"`
	StrokesA int  `json:"strokesA"`
	StrokesB int  `json:"strokesB"`
	Winner   Side `json:"-"`
}

// HoleResults compares two scorecards hole by hole over [startHole, endHole].
// A hole missing a score on either card is omitted entirely, never treated
// as unresolved. Lower strokes win; equal strokes tie.
func HoleResults(startHole, endHole int, a, b Scorecard) []HoleResult {
	var results []HoleResult
	for hole := startHole; hole <= endHole; hole++ {
		sa, okA := a[hole]
		sb, okB := b[hole]
		if !okA || !okB {
			continue
		}

		winner := SideNone
		switch {
		case sa < sb:
			winner = SideA
		case sb < sa:
			winner = SideB
		}

		results = append(results, HoleResult{Hole: hole, StrokesA: sa, StrokesB: sb, Winner: winner})
	}
	return results
}

// CurrentHole returns the highest hole in [startHole, endHole] with both
// players scored, or 0 when no hole is fully scored yet.
func CurrentHole(startHole, endHole int, a, b Scorecard) int {
	current := 0
	for hole := startHole; hole <= endHole; hole++ {
		if _, ok := a[hole]; !ok {
			continue
		}
		if _, ok := b[hole]; !ok {
			continue
		}
		current = hole
	}
	return current
}
