package models

import "github.com/uptrace/bun"

// Score is one player's gross strokes on one hole of a round. Entries are
// upserted hole by hole as the round is played, so a round's scorecard is
// sparse until everyone finishes.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID      int64 `bun:"id,pk,autoincrement" json:"id"`
	RoundID int64 `bun:"round_id,notnull,unique:scores_no_dupes" json:"roundID"`
	UserID  int64 `bun:"user_id,notnull,unique:scores_no_dupes" json:"userID"`
	Hole    int   `bun:"hole,notnull,unique:scores_no_dupes" json:"hole"`
	Strokes int   `bun:"strokes,notnull" json:"strokes"`
}
