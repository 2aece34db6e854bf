package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Settlement statuses.
const (
	SettlementPending = "pending"
	SettlementPaid    = "paid"
)

// Settlement is one computed exchange of Teeth: payer owes payee amount.
// Records are immutable once created; only the pending/paid flag moves.
// All settlements produced by a single settle operation share a group id,
// so a Nassau's three legs read as one event in the history.
type Settlement struct {
	bun.BaseModel `bun:"table:settlements,alias:st"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	GroupID   uuid.UUID `bun:"group_id,notnull,type:uuid" json:"groupID"`
	GameID    int64     `bun:"game_id,notnull,unique:settlements_no_dupes" json:"gameID"`
	EventID   int64     `bun:"event_id,notnull" json:"eventID"`
	Segment   string    `bun:"segment,notnull,unique:settlements_no_dupes" json:"segment"`
	PayerID   int64     `bun:"payer_id,notnull,unique:settlements_no_dupes" json:"payerID"`
	PayeeID   int64     `bun:"payee_id,notnull,unique:settlements_no_dupes" json:"payeeID"`
	Amount    int       `bun:"amount,notnull" json:"amount"`
	Status    string    `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
