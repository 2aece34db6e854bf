package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/ForeO4/teeth/config"
	"github.com/ForeO4/teeth/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Event)(nil),
		(*models.EventPlayer)(nil),
		(*models.StrokeAllocation)(nil),
		(*models.Round)(nil),
		(*models.Score)(nil),
		(*models.Game)(nil),
		(*models.GamePlayer)(nil),
		(*models.Settlement)(nil),
		(*models.LedgerTransaction)(nil),
		(*models.PressPolicyRow)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	// Stakes and settlement amounts are non-negative integers by invariant;
	// enforce it at the store as well so nothing downstream ever sees a
	// negative amount.
	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'games_stake_non_negative') THEN ALTER TABLE games ADD CONSTRAINT games_stake_non_negative CHECK (stake >= 0); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'settlements_amount_non_negative') THEN ALTER TABLE settlements ADD CONSTRAINT settlements_amount_non_negative CHECK (amount >= 0); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'scores_valid_hole') THEN ALTER TABLE scores ADD CONSTRAINT scores_valid_hole CHECK (hole BETWEEN 1 AND 18 AND strokes >= 1); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
