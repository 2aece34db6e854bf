package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Game formats.
const (
	FormatMatchPlay    = "match_play"
	FormatNassau       = "nassau"
	FormatHighLowTotal = "high_low_total"
)

// How a game came to exist.
const (
	OriginSetup     = "setup"
	OriginPress     = "press"
	OriginAutoPress = "auto_press"
)

// Game is one wager instance over a hole range. Presses are games with a
// parent id; the press tree is stored flat and regrouped at read time, so no
// recursive structure ever hits the database.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID   int64     `bun:"event_id,notnull" json:"eventID"`
	RoundID   int64     `bun:"round_id,notnull" json:"roundID"`
	Format    string    `bun:"format,notnull" json:"format"`
	Stake     int       `bun:"stake,notnull" json:"stake"`
	ParentID  *int64    `bun:"parent_id" json:"parentID,omitempty"`
	StartHole int       `bun:"start_hole,notnull" json:"startHole"`
	EndHole   int       `bun:"end_hole,notnull" json:"endHole"`
	Status    string    `bun:"status,notnull,default:'active'" json:"status"`
	Origin    string    `bun:"origin,notnull,default:'setup'" json:"origin"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// GamePlayer assigns a golfer to a side of a game: "a" or "b". Head-to-head
// formats have one player per side; High-Low-Total has one or two.
type GamePlayer struct {
	bun.BaseModel `bun:"table:game_players,alias:gp"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	GameID   int64  `bun:"game_id,notnull,unique:game_players_no_dupes" json:"gameID"`
	UserID   int64  `bun:"user_id,notnull,unique:game_players_no_dupes" json:"userID"`
	Side     string `bun:"side,notnull" json:"side"`
	Position int    `bun:"position,notnull,default:0" json:"position"`
}
