package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateMatch(t *testing.T) {
	tests := []struct {
		name    string
		results []HoleResult
		want    MatchResult
	}{
		{
			name: "a leads",
			results: []HoleResult{
				{Winner: SideA}, {Winner: SideA}, {Winner: SideB}, {Winner: SideNone},
			},
			want: MatchResult{HolesUp: 1, Winner: SideA, HolesPlayed: 4},
		},
		{
			name: "b leads",
			results: []HoleResult{
				{Winner: SideB}, {Winner: SideB}, {Winner: SideB}, {Winner: SideA},
			},
			want: MatchResult{HolesUp: 2, Winner: SideB, HolesPlayed: 4},
		},
		{
			name: "all square",
			results: []HoleResult{
				{Winner: SideA}, {Winner: SideB}, {Winner: SideNone},
			},
			want: MatchResult{HolesUp: 0, Winner: SideNone, HolesPlayed: 3},
		},
		{
			name: "no holes played",
			want: MatchResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateMatch(tt.results))
		})
	}
}

func TestAggregateMatchPrefix(t *testing.T) {
	// State after N holes is the aggregate of the first N results.
	results := []HoleResult{
		{Winner: SideA}, {Winner: SideA}, {Winner: SideB},
		{Winner: SideA}, {Winner: SideNone},
	}

	wantUp := []int{1, 2, 1, 2, 2}
	for n := 1; n <= len(results); n++ {
		got := AggregateMatch(results[:n])
		assert.Equal(t, wantUp[n-1], got.HolesUp, "after %d holes", n)
		assert.Equal(t, n, got.HolesPlayed)
	}
}

func TestMatchStateWorkedExample(t *testing.T) {
	// A scores 4,4,4 against B's 5,5,5 over holes 1-3: three A wins.
	a := Scorecard{1: 4, 2: 4, 3: 4}
	b := Scorecard{1: 5, 2: 5, 3: 5}

	results, res := MatchState(1, 3, a, b)
	assert.Len(t, results, 3)
	assert.Equal(t, MatchResult{HolesUp: 3, Winner: SideA, HolesPlayed: 3}, res)
}
