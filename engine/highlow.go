package engine

// StrokeAllocator reports the handicap strokes a player receives on a hole.
// Allocation data lives outside the engine (course stroke indexes, player
// handicaps); the calculators only ever see the resulting net adjustment.
type StrokeAllocator func(playerID int64, hole int) int

// NoStrokes is the gross-play allocator: nobody receives strokes.
func NoStrokes(int64, int) int { return 0 }

// Team is one side of a High-Low-Total game: one or two players.
type Team struct {
	Players []int64
}

// TeamStandings accumulates per-category points for one team.
type TeamStandings struct {
	LowBallPoints  int `json:"lowBallPoints"`
	HighBallPoints int `json:"highBallPoints"`
	TotalPoints    int `json:"totalPoints"`
	NetPoints      int `json:"netPoints"`
}

// HighLowOutcome is the full result of settling a High-Low-Total game.
type HighLowOutcome struct {
	TeamA       TeamStandings `json:"teamA"`
	TeamB       TeamStandings `json:"teamB"`
	PointDiff   int           `json:"pointDiff"` // teamA minus teamB
	Settlements []Settlement  `json:"settlements"`
	Legs        DeltaSet      `json:"legs"`
}

// SettleHighLowTotal scores a team game hole by hole. Per hole each team's
// lowest and highest net ball are compared; the strictly lower one takes the
// category point. The Total point (combined hole score) is only in play when
// both teams field two players. Ties award nothing, with no carryover.
//
// A hole only counts once every player on both teams has a recorded score,
// matching the head-to-head rule that partially scored holes are skipped.
//
// The settlement fans out |pointDiff| x perPoint across team members: losing
// members pay even shares, winning members receive even shares, with integer
// remainders landing on the first-listed member of each team. The resulting
// delta set always sums to zero.
func SettleHighLowTotal(perPoint, startHole, endHole int, teamA, teamB Team, cards map[int64]Scorecard, strokes StrokeAllocator) HighLowOutcome {
	if strokes == nil {
		strokes = NoStrokes
	}

	var out HighLowOutcome
	teamMode := len(teamA.Players) == 2 && len(teamB.Players) == 2

	for hole := startHole; hole <= endHole; hole++ {
		lowA, highA, totalA, ok := teamHoleNets(teamA, hole, cards, strokes)
		if !ok {
			continue
		}
		lowB, highB, totalB, ok := teamHoleNets(teamB, hole, cards, strokes)
		if !ok {
			continue
		}

		awardPoint(lowA, lowB, &out.TeamA.LowBallPoints, &out.TeamB.LowBallPoints)
		awardPoint(highA, highB, &out.TeamA.HighBallPoints, &out.TeamB.HighBallPoints)
		if teamMode {
			awardPoint(totalA, totalB, &out.TeamA.TotalPoints, &out.TeamB.TotalPoints)
		}
	}

	out.TeamA.NetPoints = out.TeamA.LowBallPoints + out.TeamA.HighBallPoints + out.TeamA.TotalPoints
	out.TeamB.NetPoints = out.TeamB.LowBallPoints + out.TeamB.HighBallPoints + out.TeamB.TotalPoints
	out.PointDiff = out.TeamA.NetPoints - out.TeamB.NetPoints

	if out.PointDiff == 0 {
		return out
	}

	winners, losers := teamA, teamB
	diff := out.PointDiff
	if diff < 0 {
		winners, losers = teamB, teamA
		diff = -diff
	}

	amount := diff * perPoint
	out.Settlements = pairSettlements(losers.Players, winners.Players, amount)
	for _, s := range out.Settlements {
		out.Legs = append(out.Legs, s.Legs()...)
	}
	return out
}

// teamHoleNets returns the team's low ball, high ball, and combined net for
// one hole. ok is false when any member is missing a score for the hole.
func teamHoleNets(t Team, hole int, cards map[int64]Scorecard, strokes StrokeAllocator) (low, high, total int, ok bool) {
	for i, p := range t.Players {
		gross, found := cards[p][hole]
		if !found {
			return 0, 0, 0, false
		}
		net := gross - strokes(p, hole)
		if i == 0 || net < low {
			low = net
		}
		if i == 0 || net > high {
			high = net
		}
		total += net
	}
	return low, high, total, true
}

// awardPoint gives one point to the strictly lower score; ties award nothing.
func awardPoint(a, b int, pointsA, pointsB *int) {
	switch {
	case a < b:
		*pointsA++
	case b < a:
		*pointsB++
	}
}

// pairSettlements produces payer->payee records moving amount from the losing
// members to the winning members, shares split evenly on each side. Both
// share lists sum to amount, so a two-pointer walk pairs them off in at most
// len(losers)+len(winners)-1 records.
func pairSettlements(losers, winners []int64, amount int) []Settlement {
	pay := splitEven(amount, len(losers))
	recv := splitEven(amount, len(winners))

	var out []Settlement
	i, j := 0, 0
	for i < len(losers) && j < len(winners) {
		n := min(pay[i], recv[j])
		if n > 0 {
			out = append(out, Settlement{
				PayerID: losers[i],
				PayeeID: winners[j],
				Amount:  n,
				Segment: SegmentHighLow,
			})
		}
		pay[i] -= n
		recv[j] -= n
		if pay[i] == 0 {
			i++
		}
		if recv[j] == 0 {
			j++
		}
	}
	return out
}
