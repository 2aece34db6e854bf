package models

import "github.com/uptrace/bun"

// Round is one 18-hole (or partial) round played under an event. Scores and
// games both reference a round.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	EventID int64  `bun:"event_id,notnull" json:"eventID"`
	Date    string `bun:"date,notnull,type:date" json:"date"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"-"`
}
