package models

import "github.com/uptrace/bun"

// EventPlayer puts a golfer on an event's roster. The roster is what the
// ledger initializes every balance from, so membership must exist before any
// settlement names the player.
type EventPlayer struct {
	bun.BaseModel `bun:"table:event_players,alias:ep"`

	ID      int64 `bun:"id,pk,autoincrement" json:"id"`
	EventID int64 `bun:"event_id,notnull,unique:event_players_no_dupes" json:"eventID"`
	UserID  int64 `bun:"user_id,notnull,unique:event_players_no_dupes" json:"userID"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}

// StrokeAllocation records the handicap strokes a player receives on one hole
// of an event. Rows come from whatever handicapping the event organizer uses;
// the engine only ever reads them through a lookup function.
type StrokeAllocation struct {
	bun.BaseModel `bun:"table:stroke_allocations,alias:sa"`

	ID      int64 `bun:"id,pk,autoincrement" json:"id"`
	EventID int64 `bun:"event_id,notnull,unique:stroke_allocations_no_dupes" json:"eventID"`
	UserID  int64 `bun:"user_id,notnull,unique:stroke_allocations_no_dupes" json:"userID"`
	Hole    int   `bun:"hole,notnull,unique:stroke_allocations_no_dupes" json:"hole"`
	Strokes int   `bun:"strokes,notnull" json:"strokes"`
}
