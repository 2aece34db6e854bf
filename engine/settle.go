package engine

// Segment labels which portion of a game a settlement covers. Match play and
// High-Low-Total settle a single segment; a Nassau settles up to three.
type Segment string

const (
	SegmentMatch   Segment = "match"
	SegmentFront   Segment = "front"
	SegmentBack    Segment = "back"
	SegmentOverall Segment = "overall"
	SegmentHighLow Segment = "high_low_total"
)

// Nassau hole ranges.
const (
	frontStart, frontEnd = 1, 9
	backStart, backEnd   = 10, 18
)

// Leg is one participant's signed share of a settlement.
type Leg struct {
	PlayerID int64 `json:"playerID"`
	Delta    int   `json:"delta"`
}

// DeltaSet is the full set of signed deltas produced by one settlement event.
// Every format routes through this shape so the zero-sum invariant is checked
// in exactly one place (the ledger).
type DeltaSet []Leg

// Sum returns the total of all deltas. A valid set sums to zero.
func (d DeltaSet) Sum() int {
	total := 0
	for _, leg := range d {
		total += leg.Delta
	}
	return total
}

// Settlement is one computed exchange: payer owes payee amount.
type Settlement struct {
	PayerID int64   `json:"payerID"`
	PayeeID int64   `json:"payeeID"`
	Amount  int     `json:"amount"`
	Segment Segment `json:"segment"`
}

// Legs expands the settlement into its zero-sum delta pair.
func (s Settlement) Legs() DeltaSet {
	return DeltaSet{
		{PlayerID: s.PayerID, Delta: -s.Amount},
		{PlayerID: s.PayeeID, Delta: s.Amount},
	}
}

// SettleMatchPlay turns a match result into a settlement, or nil when the
// match is tied. Amount scales linearly with the margin: stake x holes up,
// with no cap relative to holes remaining (an early-clinched "5 & 3" still
// pays the full margin).
func SettleMatchPlay(stake int, playerA, playerB int64, res MatchResult) *Settlement {
	return settleSegment(stake, playerA, playerB, res, SegmentMatch)
}

func settleSegment(stake int, playerA, playerB int64, res MatchResult, seg Segment) *Settlement {
	if res.Winner == SideNone {
		return nil
	}

	s := &Settlement{Amount: stake * res.HolesUp, Segment: seg}
	if res.Winner == SideA {
		s.PayerID, s.PayeeID = playerB, playerA
	} else {
		s.PayerID, s.PayeeID = playerA, playerB
	}
	return s
}

// SettleNassau computes the three independent match-play settlements of a
// Nassau: front nine, back nine, and overall, each at the same stake. Tied
// segments produce nothing, so the result holds zero to three settlements,
// possibly naming different winners.
func SettleNassau(stake, startHole, endHole int, playerA, playerB int64, a, b Scorecard) []Settlement {
	segments := []struct {
		seg        Segment
		start, end int
	}{
		{SegmentFront, frontStart, frontEnd},
		{SegmentBack, backStart, backEnd},
		{SegmentOverall, startHole, endHole},
	}

	var out []Settlement
	for _, sg := range segments {
		res := AggregateMatch(HoleResults(sg.start, sg.end, a, b))
		if s := settleSegment(stake, playerA, playerB, res, sg.seg); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// splitEven divides total across n shares, giving any remainder to the
// first share so the parts always sum back to total.
func splitEven(total, n int) []int {
	shares := make([]int, n)
	base := total / n
	rem := total % n
	for i := range shares {
		shares[i] = base
	}
	shares[0] += rem
	return shares
}
