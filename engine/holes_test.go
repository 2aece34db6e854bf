package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoleResults(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		a, b       Scorecard
		want       []HoleResult
	}{
		{
			name:  "lower strokes wins, equal ties",
			start: 1, end: 3,
			a: Scorecard{1: 4, 2: 5, 3: 4},
			b: Scorecard{1: 5, 2: 4, 3: 4},
			want: []HoleResult{
				{Hole: 1, StrokesA: 4, StrokesB: 5, Winner: SideA},
				{Hole: 2, StrokesA: 5, StrokesB: 4, Winner: SideB},
				{Hole: 3, StrokesA: 4, StrokesB: 4, Winner: SideNone},
			},
		},
		{
			name:  "hole missing either score is omitted entirely",
			start: 1, end: 4,
			a: Scorecard{1: 4, 2: 5, 4: 3},
			b: Scorecard{1: 5, 3: 4, 4: 4},
			want: []HoleResult{
				{Hole: 1, StrokesA: 4, StrokesB: 5, Winner: SideA},
				{Hole: 4, StrokesA: 3, StrokesB: 4, Winner: SideA},
			},
		},
		{
			name:  "holes outside the range are ignored",
			start: 10, end: 18,
			a:    Scorecard{1: 4, 9: 4},
			b:    Scorecard{1: 5, 9: 5},
			want: nil,
		},
		{
			name:  "empty cards produce nothing",
			start: 1, end: 18,
			a:    Scorecard{},
			b:    Scorecard{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoleResults(tt.start, tt.end, tt.a, tt.b))
		})
	}
}

func TestHoleResultsExactlyOneOutcome(t *testing.T) {
	a := Scorecard{1: 3, 2: 4, 3: 5, 4: 4, 5: 6}
	b := Scorecard{1: 4, 2: 4, 3: 4, 4: 5, 5: 6}

	results := HoleResults(1, 5, a, b)
	require.Len(t, results, 5)
	for _, r := range results {
		switch {
		case r.StrokesA < r.StrokesB:
			assert.Equal(t, SideA, r.Winner, "hole %d", r.Hole)
		case r.StrokesB < r.StrokesA:
			assert.Equal(t, SideB, r.Winner, "hole %d", r.Hole)
		default:
			assert.Equal(t, SideNone, r.Winner, "hole %d", r.Hole)
		}
	}
}

func TestCurrentHole(t *testing.T) {
	a := Scorecard{1: 4, 2: 5, 3: 4, 5: 4}
	b := Scorecard{1: 5, 2: 4, 4: 4, 5: 5}

	// Hole 5 is the highest with both scored; 3 and 4 are half-scored.
	assert.Equal(t, 5, CurrentHole(1, 18, a, b))
	assert.Equal(t, 2, CurrentHole(1, 4, a, b))
	assert.Equal(t, 0, CurrentHole(6, 18, a, b))
	assert.Equal(t, 0, CurrentHole(1, 18, Scorecard{}, Scorecard{}))
}
