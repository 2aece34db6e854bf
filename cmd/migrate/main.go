// cmd/migrate/main.go
// Migrates data from the old MySQL score tracker into the local PostgreSQL
// database. The old tracker only knew golfers, trips, rounds and raw scores;
// games and settlements start fresh.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/scoreTracker?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/ForeO4/teeth/config"
	bundb "github.com/ForeO4/teeth/db"
	"github.com/ForeO4/teeth/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/scoreTracker?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateGolfers(ctx, myDB, pgDB) }},
		{"events", func() (int, error) { return migrateTrips(ctx, myDB, pgDB) }},
		{"event_players", func() (int, error) { return migrateTripGolfers(ctx, myDB, pgDB) }},
		{"rounds", func() (int, error) { return migrateRounds(ctx, myDB, pgDB) }},
		{"scores", func() (int, error) { return migrateScores(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// --- per-table migrations ---

func migrateGolfers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, password, name FROM golfers")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.User
	total := 0
	for rows.Next() {
		var (
			r    models.User
			name sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Username, &r.Password, &name); err != nil {
			return total, err
		}
		r.DisplayName = r.Username
		if name.Valid && name.String != "" {
			r.DisplayName = name.String
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTrips(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name, created FROM trips")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Event
	total := 0
	for rows.Next() {
		var (
			id      int64
			name    string
			created time.Time
		)
		if err := rows.Scan(&id, &name, &created); err != nil {
			return total, err
		}
		batch = append(batch, models.Event{ID: id, Name: name, CreatedAt: created})
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTripGolfers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT tripID, golferID FROM tripGolfers")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.EventPlayer
	total := 0
	for rows.Next() {
		var r models.EventPlayer
		if err := rows.Scan(&r.EventID, &r.UserID); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRounds(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, tripID, date FROM rounds")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Round
	total := 0
	for rows.Next() {
		var (
			id, tripID int64
			date       time.Time
		)
		if err := rows.Scan(&id, &tripID, &date); err != nil {
			return total, err
		}
		batch = append(batch, models.Round{ID: id, EventID: tripID, Date: fmtDate(date)})
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateScores(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	// The old tracker stored zero strokes for unplayed holes; those rows are
	// dropped so scorecards stay sparse.
	rows, err := myDB.QueryContext(ctx,
		"SELECT roundID, golferID, hole, strokes FROM scores WHERE strokes > 0")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Score
	total := 0
	for rows.Next() {
		var r models.Score
		if err := rows.Scan(&r.RoundID, &r.UserID, &r.Hole, &r.Strokes); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []struct{ seq, table, col string }{
		{"users_id_seq", "users", "id"},
		{"events_id_seq", "events", "id"},
		{"event_players_id_seq", "event_players", "id"},
		{"rounds_id_seq", "rounds", "id"},
		{"scores_id_seq", "scores", "id"},
	}
	for _, s := range seqs {
		q := fmt.Sprintf(
			"SELECT setval('%s', COALESCE((SELECT MAX(%s) FROM %s), 1))",
			s.seq, s.col, s.table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", s.seq, err)
		}
	}
	log.Println("sequences reset")
}
