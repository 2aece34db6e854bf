package engine

// Policy limits.
const (
	MinTriggerThreshold = 1
	MaxTriggerThreshold = 9
	MinMaxPresses       = 1
	MaxMaxPresses       = 10
)

// Policy validation reasons.
const (
	ReasonBadThreshold  = "trigger threshold must be between 1 and 9"
	ReasonBadMaxPresses = "max presses must be between 1 and 10"
)

// PressPolicy controls automatic press creation for an event's games.
type PressPolicy struct {
	Enabled          bool `json:"enabled"`
	TriggerThreshold int  `json:"triggerThreshold"`
	MaxPresses       int  `json:"maxPresses"`
}

// DefaultPressPolicy is disabled with the conventional 2-down trigger and a
// three-press ceiling.
func DefaultPressPolicy() PressPolicy {
	return PressPolicy{Enabled: false, TriggerThreshold: 2, MaxPresses: 3}
}

// Validate rejects out-of-range policy settings.
func (p PressPolicy) Validate() error {
	if p.TriggerThreshold < MinTriggerThreshold || p.TriggerThreshold > MaxTriggerThreshold {
		return validationErr(ReasonBadThreshold)
	}
	if p.MaxPresses < MinMaxPresses || p.MaxPresses > MaxMaxPresses {
		return validationErr(ReasonBadMaxPresses)
	}
	return nil
}

// EvaluateAutoPress decides whether a press should fire on the parent after a
// hole becomes fully scored. It fires when the policy is enabled, the deficit
// has reached the trigger threshold, the parent is under its press ceiling,
// and holes remain in the parent's range. On fire the press starts at the next
// unplayed hole at the parent's stake.
//
// The function is pure and idempotent for identical inputs; calling it exactly
// once per hole transition is the caller's job, with childCount as the hard
// ceiling against double evaluation.
func EvaluateAutoPress(policy PressPolicy, parent ParentState, childCount int, res MatchResult) (startHole int, fire bool) {
	if !policy.Enabled {
		return 0, false
	}
	if parent.Status != StatusActive {
		return 0, false
	}
	if res.HolesUp < policy.TriggerThreshold {
		return 0, false
	}
	if childCount >= policy.MaxPresses {
		return 0, false
	}
	if parent.CurrentHole >= parent.EndHole {
		return 0, false
	}
	return parent.CurrentHole + 1, true
}
