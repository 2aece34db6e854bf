package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetPositions(t *testing.T) {
	// B pays A 30, then A pays C 10: A +20, B -30, C +10.
	roster := []int64{1, 2, 3}
	history := []DeltaSet{
		Settlement{PayerID: 2, PayeeID: 1, Amount: 30}.Legs(),
		Settlement{PayerID: 1, PayeeID: 3, Amount: 10}.Legs(),
	}

	positions, err := NetPositions(roster, history)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 20, 2: -30, 3: 10}, positions)
}

func TestNetPositionsEmptyHistory(t *testing.T) {
	positions, err := NetPositions([]int64{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 0, 2: 0}, positions)
}

func TestNetPositionsAlwaysZeroSum(t *testing.T) {
	roster := []int64{1, 2, 3, 4}
	histories := [][]DeltaSet{
		{
			Settlement{PayerID: 1, PayeeID: 2, Amount: 7}.Legs(),
			Settlement{PayerID: 2, PayeeID: 3, Amount: 7}.Legs(),
			Settlement{PayerID: 3, PayeeID: 1, Amount: 7}.Legs(),
		},
		{
			// High-Low-Total style fan-out in one set.
			{Leg{1, -8}, Leg{2, -7}, Leg{3, 8}, Leg{4, 7}},
		},
		{
			Settlement{PayerID: 4, PayeeID: 1, Amount: 0}.Legs(),
		},
	}

	for i, history := range histories {
		positions, err := NetPositions(roster, history)
		require.NoError(t, err, "history %d", i)

		sum := 0
		for _, balance := range positions {
			sum += balance
		}
		assert.Equal(t, 0, sum, "history %d", i)
	}
}

func TestApplyDeltaSetRunningBalance(t *testing.T) {
	balances := map[int64]int{1: 10, 2: -10}

	entries, err := ApplyDeltaSet(balances, DeltaSet{{1, -4}, {2, 4}})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, LedgerEntry{PlayerID: 1, Delta: -4, Balance: 6}, entries[0])
	assert.Equal(t, LedgerEntry{PlayerID: 2, Delta: 4, Balance: -6}, entries[1])
}

func TestApplyDeltaSetRejectsNonZeroSum(t *testing.T) {
	balances := map[int64]int{1: 0, 2: 0}

	_, err := ApplyDeltaSet(balances, DeltaSet{{1, -5}, {2, 4}})
	require.ErrorIs(t, err, ErrNotZeroSum)

	// Nothing was applied.
	assert.Equal(t, map[int64]int{1: 0, 2: 0}, balances)
}

func TestNetPositionsRecoversFromHistoryAlone(t *testing.T) {
	// The fold is derived entirely from settlement history: replaying the
	// same history yields the same positions, order preserved.
	roster := []int64{1, 2}
	history := []DeltaSet{
		Settlement{PayerID: 1, PayeeID: 2, Amount: 5}.Legs(),
		Settlement{PayerID: 2, PayeeID: 1, Amount: 12}.Legs(),
	}

	first, err := NetPositions(roster, history)
	require.NoError(t, err)
	second, err := NetPositions(roster, history)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 7, first[1])
	assert.Equal(t, -7, first[2])
}
