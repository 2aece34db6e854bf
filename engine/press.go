package engine

// Game status values. A game is created active and flips to complete exactly
// once, at settle time. Complete is terminal.
const (
	StatusActive   = "active"
	StatusComplete = "complete"
)

// Press rejection reasons. Each failed check returns its own reason so the
// caller can show the exact cause.
const (
	ReasonNegativeStake   = "stake must be a non-negative integer"
	ReasonStartOutOfRange = "start hole must be between 1 and 18"
	ReasonStartNotAhead   = "must start after current hole"
	ReasonStartAfterEnd   = "starts after parent ends"
	ReasonParentComplete  = "cannot press a completed wager"
)

// ParentState is the slice of a wager the press validator needs: its status,
// hole range, and the highest fully scored hole within that range.
type ParentState struct {
	Status      string
	StartHole   int
	EndHole     int
	Stake       int
	CurrentHole int
}

// ValidatePress applies the press state machine rules. On success the child
// inherits the parent's end hole and participants, takes the given stake, and
// starts active with no scores; building that record is the caller's job.
// CheckPressCap rejects another press once the parent already carries the
// policy's maximum. Unlike the validation reasons this is a conflict: the
// request was well formed but lost to presses that already exist.
func CheckPressCap(policy PressPolicy, childCount int) error {
	if childCount >= policy.MaxPresses {
		return ErrPressLimit
	}
	return nil
}

func ValidatePress(parent ParentState, startHole, stake int) error {
	if stake < 0 {
		return validationErr(ReasonNegativeStake)
	}
	if startHole < 1 || startHole > 18 {
		return validationErr(ReasonStartOutOfRange)
	}
	if parent.Status != StatusActive {
		return validationErr(ReasonParentComplete)
	}
	if startHole <= parent.CurrentHole {
		return validationErr(ReasonStartNotAhead)
	}
	if startHole > parent.EndHole {
		return validationErr(ReasonStartAfterEnd)
	}
	return nil
}
