package handlers

import (
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	rdb    *redis.Client // nil when caching is disabled
	JWTKey []byte
}

// New creates a Handler with the given database connection, optional Redis
// client, and JWT signing key.
func New(db *bun.DB, rdb *redis.Client, jwtKey []byte) *Handler {
	return &Handler{db: db, rdb: rdb, JWTKey: jwtKey}
}
