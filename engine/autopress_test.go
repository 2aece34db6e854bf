package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func enabledPolicy() PressPolicy {
	return PressPolicy{Enabled: true, TriggerThreshold: 2, MaxPresses: 3}
}

func TestEvaluateAutoPress(t *testing.T) {
	parent := ParentState{Status: StatusActive, StartHole: 1, EndHole: 18, Stake: 5, CurrentHole: 8}

	tests := []struct {
		name       string
		policy     PressPolicy
		parent     ParentState
		childCount int
		res        MatchResult
		wantStart  int
		wantFire   bool
	}{
		{
			name:      "fires when deficit reaches threshold",
			policy:    enabledPolicy(),
			parent:    parent,
			res:       MatchResult{HolesUp: 2, Winner: SideA, HolesPlayed: 8},
			wantStart: 9,
			wantFire:  true,
		},
		{
			name:      "fires past threshold while under press cap",
			policy:    enabledPolicy(),
			parent:    parent,
			res:       MatchResult{HolesUp: 5, Winner: SideB, HolesPlayed: 8},
			wantStart: 9,
			wantFire:  true,
		},
		{
			name:   "below threshold",
			policy: enabledPolicy(),
			parent: parent,
			res:    MatchResult{HolesUp: 1, Winner: SideA, HolesPlayed: 8},
		},
		{
			name:   "disabled policy",
			policy: PressPolicy{Enabled: false, TriggerThreshold: 2, MaxPresses: 3},
			parent: parent,
			res:    MatchResult{HolesUp: 4, Winner: SideA, HolesPlayed: 8},
		},
		{
			name:       "suppressed at the press cap even as deficit grows",
			policy:     enabledPolicy(),
			parent:     parent,
			childCount: 3,
			res:        MatchResult{HolesUp: 7, Winner: SideA, HolesPlayed: 8},
		},
		{
			name:   "no holes remain in the parent range",
			policy: enabledPolicy(),
			parent: ParentState{Status: StatusActive, StartHole: 1, EndHole: 18, CurrentHole: 18},
			res:    MatchResult{HolesUp: 3, Winner: SideA, HolesPlayed: 18},
		},
		{
			name:   "completed parent never fires",
			policy: enabledPolicy(),
			parent: ParentState{Status: StatusComplete, StartHole: 1, EndHole: 18, CurrentHole: 9},
			res:    MatchResult{HolesUp: 3, Winner: SideA, HolesPlayed: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, fire := EvaluateAutoPress(tt.policy, tt.parent, tt.childCount, tt.res)
			assert.Equal(t, tt.wantFire, fire)
			assert.Equal(t, tt.wantStart, start)
		})
	}
}

func TestEvaluateAutoPressIdempotent(t *testing.T) {
	// Identical inputs always produce the identical decision; the caller's
	// child count is what stops a second press for the same transition.
	parent := ParentState{Status: StatusActive, StartHole: 1, EndHole: 18, CurrentHole: 10}
	res := MatchResult{HolesUp: 2, Winner: SideB, HolesPlayed: 10}

	s1, f1 := EvaluateAutoPress(enabledPolicy(), parent, 0, res)
	s2, f2 := EvaluateAutoPress(enabledPolicy(), parent, 0, res)
	assert.Equal(t, s1, s2)
	assert.Equal(t, f1, f2)

	_, fire := EvaluateAutoPress(enabledPolicy(), parent, 1, res)
	assert.True(t, fire, "one existing press under a cap of three still fires")
}

func TestPressPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPressPolicy().Validate())
	assert.NoError(t, PressPolicy{Enabled: true, TriggerThreshold: 9, MaxPresses: 10}.Validate())

	tests := []struct {
		name   string
		policy PressPolicy
		reason string
	}{
		{"threshold too low", PressPolicy{TriggerThreshold: 0, MaxPresses: 3}, ReasonBadThreshold},
		{"threshold too high", PressPolicy{TriggerThreshold: 10, MaxPresses: 3}, ReasonBadThreshold},
		{"max presses too low", PressPolicy{TriggerThreshold: 2, MaxPresses: 0}, ReasonBadMaxPresses},
		{"max presses too high", PressPolicy{TriggerThreshold: 2, MaxPresses: 11}, ReasonBadMaxPresses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}

func TestDefaultPressPolicy(t *testing.T) {
	p := DefaultPressPolicy()
	assert.False(t, p.Enabled)
	assert.Equal(t, 2, p.TriggerThreshold)
	assert.Equal(t, 3, p.MaxPresses)
}
