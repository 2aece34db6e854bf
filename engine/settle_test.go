package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	playerA int64 = 101
	playerB int64 = 202
)

func TestSettleMatchPlay(t *testing.T) {
	tests := []struct {
		name  string
		stake int
		res   MatchResult
		want  *Settlement
	}{
		{
			name:  "amount is stake times holes up",
			stake: 5,
			res:   MatchResult{HolesUp: 3, Winner: SideA, HolesPlayed: 9},
			want:  &Settlement{PayerID: playerB, PayeeID: playerA, Amount: 15, Segment: SegmentMatch},
		},
		{
			name:  "payer and payee swap when b wins",
			stake: 5,
			res:   MatchResult{HolesUp: 3, Winner: SideB, HolesPlayed: 9},
			want:  &Settlement{PayerID: playerA, PayeeID: playerB, Amount: 15, Segment: SegmentMatch},
		},
		{
			name:  "tied match settles nothing",
			stake: 50,
			res:   MatchResult{HolesUp: 0, Winner: SideNone, HolesPlayed: 18},
			want:  nil,
		},
		{
			name:  "zero stake settles zero",
			stake: 0,
			res:   MatchResult{HolesUp: 4, Winner: SideA, HolesPlayed: 18},
			want:  &Settlement{PayerID: playerB, PayeeID: playerA, Amount: 0, Segment: SegmentMatch},
		},
		{
			name:  "margin is not capped at holes remaining",
			stake: 2,
			res:   MatchResult{HolesUp: 5, Winner: SideA, HolesPlayed: 15},
			want:  &Settlement{PayerID: playerB, PayeeID: playerA, Amount: 10, Segment: SegmentMatch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SettleMatchPlay(tt.stake, playerA, playerB, tt.res))
		})
	}
}

func TestSettleMatchPlayWorkedExample(t *testing.T) {
	// Stake 10 over holes 1-3, A 4,4,4 vs B 5,5,5: A wins 30.
	a := Scorecard{1: 4, 2: 4, 3: 4}
	b := Scorecard{1: 5, 2: 5, 3: 5}

	_, res := MatchState(1, 3, a, b)
	s := SettleMatchPlay(10, playerA, playerB, res)
	require.NotNil(t, s)
	assert.Equal(t, 30, s.Amount)
	assert.Equal(t, playerA, s.PayeeID)
	assert.Equal(t, playerB, s.PayerID)
}

func TestSettlementLegsZeroSum(t *testing.T) {
	s := Settlement{PayerID: playerA, PayeeID: playerB, Amount: 40, Segment: SegmentMatch}

	legs := s.Legs()
	require.Len(t, legs, 2)
	assert.Equal(t, 0, legs.Sum())
	assert.Equal(t, Leg{PlayerID: playerA, Delta: -40}, legs[0])
	assert.Equal(t, Leg{PlayerID: playerB, Delta: 40}, legs[1])
}

func TestSettleNassau(t *testing.T) {
	// A wins every front hole, B wins every back hole; overall is square.
	a, b := Scorecard{}, Scorecard{}
	for hole := 1; hole <= 9; hole++ {
		a[hole], b[hole] = 4, 5
	}
	for hole := 10; hole <= 18; hole++ {
		a[hole], b[hole] = 5, 4
	}

	got := SettleNassau(2, 1, 18, playerA, playerB, a, b)
	require.Len(t, got, 2)

	assert.Equal(t, Settlement{PayerID: playerB, PayeeID: playerA, Amount: 18, Segment: SegmentFront}, got[0])
	assert.Equal(t, Settlement{PayerID: playerA, PayeeID: playerB, Amount: 18, Segment: SegmentBack}, got[1])
	for _, s := range got {
		assert.NotEqual(t, SegmentOverall, s.Segment, "tied overall must not settle")
	}
}

func TestSettleNassauAllSegments(t *testing.T) {
	// A wins holes 1 and 10; everything else ties. All three segments pay A.
	a, b := Scorecard{}, Scorecard{}
	for hole := 1; hole <= 18; hole++ {
		a[hole], b[hole] = 4, 4
	}
	b[1], b[10] = 5, 5

	got := SettleNassau(3, 1, 18, playerA, playerB, a, b)
	require.Len(t, got, 3)
	assert.Equal(t, SegmentFront, got[0].Segment)
	assert.Equal(t, SegmentBack, got[1].Segment)
	assert.Equal(t, SegmentOverall, got[2].Segment)
	assert.Equal(t, 6, got[2].Amount) // two up overall
	for _, s := range got {
		assert.Equal(t, playerA, s.PayeeID)
	}
}

func TestSettleNassauSparseCards(t *testing.T) {
	// Only two front holes scored on both cards; back and most of the front
	// are missing, so only the front and overall segments have results.
	a := Scorecard{1: 4, 2: 4}
	b := Scorecard{1: 5, 2: 5}

	got := SettleNassau(1, 1, 18, playerA, playerB, a, b)
	require.Len(t, got, 2)
	assert.Equal(t, Settlement{PayerID: playerB, PayeeID: playerA, Amount: 2, Segment: SegmentFront}, got[0])
	assert.Equal(t, Settlement{PayerID: playerB, PayeeID: playerA, Amount: 2, Segment: SegmentOverall}, got[1])
}

func TestSplitEven(t *testing.T) {
	assert.Equal(t, []int{15, 15}, splitEven(30, 2))
	assert.Equal(t, []int{8, 7}, splitEven(15, 2))
	assert.Equal(t, []int{7}, splitEven(7, 1))
	assert.Equal(t, []int{0, 0}, splitEven(0, 2))
}
