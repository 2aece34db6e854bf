package models

import "github.com/uptrace/bun"

// User is a golfer account with bcrypt-hashed password.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Username    string `bun:"username,notnull,unique" json:"username"`
	Password    string `bun:"password,notnull" json:"-"`
	DisplayName string `bun:"display_name,notnull" json:"displayName"`
}
