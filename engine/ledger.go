package engine

import "fmt"

// LedgerEntry is one applied delta with the running balance it produced.
type LedgerEntry struct {
	PlayerID int64 `json:"playerID"`
	Delta    int   `json:"delta"`
	Balance  int   `json:"balance"` // previous balance + delta
}

// ApplyDeltaSet is the single choke point every settlement flows through.
// It mutates balances in place and returns the ledger entries produced,
// rejecting any set that does not sum to zero before applying anything.
func ApplyDeltaSet(balances map[int64]int, set DeltaSet) ([]LedgerEntry, error) {
	if sum := set.Sum(); sum != 0 {
		return nil, fmt.Errorf("%w: sum %d", ErrNotZeroSum, sum)
	}

	entries := make([]LedgerEntry, 0, len(set))
	for _, leg := range set {
		balances[leg.PlayerID] += leg.Delta
		entries = append(entries, LedgerEntry{
			PlayerID: leg.PlayerID,
			Delta:    leg.Delta,
			Balance:  balances[leg.PlayerID],
		})
	}
	return entries, nil
}

// NetPositions folds a settlement history, in creation order, into per-player
// balances. Every roster member starts at zero, so the positions are fully
// re-derivable from the history alone and always sum to zero.
func NetPositions(roster []int64, history []DeltaSet) (map[int64]int, error) {
	balances := make(map[int64]int, len(roster))
	for _, p := range roster {
		balances[p] = 0
	}

	for i, set := range history {
		if _, err := ApplyDeltaSet(balances, set); err != nil {
			return nil, fmt.Errorf("settlement %d: %w", i, err)
		}
	}
	return balances, nil
}
