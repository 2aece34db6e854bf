package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LedgerTransaction is one signed movement of Teeth for one player, with the
// running balance it produced. Append-only: rows are written alongside their
// settlement in the same transaction and never touched again. The sum of all
// deltas for an event is zero at every point in the log.
type LedgerTransaction struct {
	bun.BaseModel `bun:"table:ledger_transactions,alias:lt"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID      int64     `bun:"event_id,notnull" json:"eventID"`
	UserID       int64     `bun:"user_id,notnull" json:"userID"`
	Delta        int       `bun:"delta,notnull" json:"delta"`
	Balance      int       `bun:"balance,notnull" json:"balance"`
	Reason       string    `bun:"reason,notnull" json:"reason"`
	SettlementID *int64    `bun:"settlement_id" json:"settlementID,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// PressPolicyRow stores an event's auto-press configuration. Absence means
// the engine default (disabled, trigger 2, max 3 presses).
type PressPolicyRow struct {
	bun.BaseModel `bun:"table:press_policies,alias:pp"`

	ID               int64 `bun:"id,pk,autoincrement" json:"id"`
	EventID          int64 `bun:"event_id,notnull,unique" json:"eventID"`
	Enabled          bool  `bun:"enabled,notnull,default:false" json:"enabled"`
	TriggerThreshold int   `bun:"trigger_threshold,notnull,default:2" json:"triggerThreshold"`
	MaxPresses       int   `bun:"max_presses,notnull,default:3" json:"maxPresses"`
}
