package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ForeO4/teeth/cache"
	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

// Settle closes a game: computes its settlements from the recorded scores,
// writes them and their ledger transactions, and marks the game complete, all
// in one transaction with the game row locked. A second settle on the same
// game gets a 409 and never recomputes.
func (h *Handler) Settle(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid game id")
	}

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	game := &models.Game{}
	err = tx.NewSelect().Model(game).Where("g.id = ?", gameID).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "game not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if game.Status == engine.StatusComplete {
		return engineHTTPError(engine.ErrAlreadySettled)
	}

	players, err := loadGamePlayers(ctx, tx, gameID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	cards, err := loadScorecards(ctx, tx, game.RoundID, playerIDs(players))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	settlements, err := computeSettlements(ctx, tx, game, players, cards)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	balances, err := eventBalances(ctx, tx, game.EventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	groupID := uuid.New()
	var saved []*models.Settlement
	for _, s := range settlements {
		row := &models.Settlement{
			GroupID: groupID,
			GameID:  game.ID,
			EventID: game.EventID,
			Segment: string(s.Segment),
			PayerID: s.PayerID,
			PayeeID: s.PayeeID,
			Amount:  s.Amount,
			Status:  models.SettlementPending,
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		entries, err := engine.ApplyDeltaSet(balances, s.Legs())
		if err != nil {
			return engineHTTPError(err)
		}
		reason := fmt.Sprintf("%s %s settlement", game.Format, s.Segment)
		for _, e := range entries {
			lt := &models.LedgerTransaction{
				EventID:      game.EventID,
				UserID:       e.PlayerID,
				Delta:        e.Delta,
				Balance:      e.Balance,
				Reason:       reason,
				SettlementID: &row.ID,
			}
			if _, err := tx.NewInsert().Model(lt).Exec(ctx); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
		saved = append(saved, row)
	}

	game.Status = engine.StatusComplete
	_, err = tx.NewUpdate().Model(game).
		Set("status = ?", engine.StatusComplete).
		Where("id = ?", game.ID).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err = tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	_ = cache.Delete(ctx, h.rdb, ledgerCacheKey(game.EventID))

	return c.JSON(http.StatusOK, map[string]any{
		"game":        game,
		"groupID":     groupID,
		"settlements": saved,
	})
}

// computeSettlements runs the format's calculator. A tied game produces no
// settlements but still completes. All reads go through db so the settle
// transaction's lock covers them.
func computeSettlements(ctx context.Context, db bun.IDB, game *models.Game, players []models.GamePlayer, cards map[int64]engine.Scorecard) ([]engine.Settlement, error) {
	switch game.Format {
	case models.FormatMatchPlay:
		playerA, playerB, a, b := headToHead(players, cards)
		_, res := engine.MatchState(game.StartHole, game.EndHole, a, b)
		if s := engine.SettleMatchPlay(game.Stake, playerA, playerB, res); s != nil {
			return []engine.Settlement{*s}, nil
		}
		return nil, nil

	case models.FormatNassau:
		playerA, playerB, a, b := headToHead(players, cards)
		return engine.SettleNassau(game.Stake, game.StartHole, game.EndHole, playerA, playerB, a, b), nil

	case models.FormatHighLowTotal:
		teamA, teamB := sideTeams(players)
		strokes, err := strokeAllocator(ctx, db, game.EventID)
		if err != nil {
			return nil, err
		}
		out := engine.SettleHighLowTotal(game.Stake, game.StartHole, game.EndHole, teamA, teamB, cards, strokes)
		return out.Settlements, nil
	}

	return nil, fmt.Errorf("unknown format %q", game.Format)
}

// headToHead picks out the two players and their cards for two-player formats.
func headToHead(players []models.GamePlayer, cards map[int64]engine.Scorecard) (int64, int64, engine.Scorecard, engine.Scorecard) {
	var playerA, playerB int64
	for _, p := range players {
		if p.Side == engine.SideA.String() {
			playerA = p.UserID
		} else {
			playerB = p.UserID
		}
	}
	a, b := sideCards(players, cards)
	return playerA, playerB, a, b
}

type balanceRow struct {
	UserID  int64 `bun:"user_id"`
	Balance int   `bun:"balance"`
}

// eventBalances reads the latest running balance per player from the ledger.
// Players with no transactions start at zero when first touched.
func eventBalances(ctx context.Context, db bun.IDB, eventID int64) (map[int64]int, error) {
	var rows []balanceRow
	err := db.NewSelect().
		TableExpr("ledger_transactions lt").
		ColumnExpr("DISTINCT ON (lt.user_id) lt.user_id, lt.balance").
		Where("lt.event_id = ?", eventID).
		OrderExpr("lt.user_id, lt.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	balances := make(map[int64]int, len(rows))
	for _, r := range rows {
		balances[r.UserID] = r.Balance
	}
	return balances, nil
}

// MarkSettlementPaid flips a pending settlement to paid. Amounts never change
// after creation; this is the only mutable bit on the record.
func (h *Handler) MarkSettlementPaid(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid settlement id")
	}

	ctx := c.Request().Context()

	settlement := &models.Settlement{}
	if err := h.db.NewSelect().Model(settlement).Where("st.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "settlement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if settlement.Status == models.SettlementPaid {
		return c.JSON(http.StatusOK, settlement)
	}

	settlement.Status = models.SettlementPaid
	_, err = h.db.NewUpdate().Model(settlement).
		Set("status = ?", models.SettlementPaid).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, settlement)
}
