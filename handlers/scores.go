package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

type scoreRequest struct {
	RoundID int64 `json:"roundID"`
	UserID  int64 `json:"userID"`
	Hole    int   `json:"hole"`
	Strokes int   `json:"strokes"`
}

// UpsertScore records a gross score for one hole. Posting the same hole again
// overwrites the previous strokes. After the write, active games on the round
// covering that hole are checked against the event's auto-press policy inside
// the same transaction.
func (h *Handler) UpsertScore(c echo.Context) error {
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Hole < 1 || req.Hole > 18 {
		return echo.NewHTTPError(http.StatusBadRequest, "hole must be between 1 and 18")
	}
	if req.Strokes < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "strokes must be at least 1")
	}

	ctx := c.Request().Context()

	round := &models.Round{}
	if err := h.db.NewSelect().Model(round).Where("rd.id = ?", req.RoundID).Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "round not found")
	}

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

	score := &models.Score{
		RoundID: req.RoundID,
		UserID:  req.UserID,
		Hole:    req.Hole,
		Strokes: req.Strokes,
	}
	_, err = tx.NewInsert().Model(score).
		On("CONFLICT (round_id, user_id, hole) DO UPDATE").
		Set("strokes = EXCLUDED.strokes").
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pressed, err := h.runAutoPress(ctx, tx, round, req.Hole)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err = tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.JSON(http.StatusOK, map[string]any{"score": score, "autoPresses": pressed})
}

// runAutoPress checks every active head-to-head game on the round whose hole
// range covers the updated hole. Games are locked so concurrent score posts
// cannot double-press. Returns any presses created.
func (h *Handler) runAutoPress(ctx context.Context, tx bun.Tx, round *models.Round, hole int) ([]*models.Game, error) {
	policy, err := h.pressPolicy(ctx, tx, round.EventID)
	if err != nil {
		return nil, err
	}
	if !policy.Enabled {
		return nil, nil
	}

	var games []*models.Game
	err = tx.NewSelect().Model(&games).
		Where("g.round_id = ?", round.ID).
		Where("g.status = ?", engine.StatusActive).
		Where("g.start_hole <= ? AND g.end_hole >= ?", hole, hole).
		Where("g.format IN (?)", bun.In([]string{models.FormatMatchPlay, models.FormatNassau})).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	var created []*models.Game
	for _, game := range games {
		players, err := loadGamePlayers(ctx, tx, game.ID)
		if err != nil {
			return nil, err
		}
		if len(players) != 2 {
			continue
		}
		cards, err := loadScorecards(ctx, tx, game.RoundID, playerIDs(players))
		if err != nil {
			return nil, err
		}

		a, b := sideCards(players, cards)
		_, res := engine.MatchState(game.StartHole, game.EndHole, a, b)

		childCount, err := tx.NewSelect().Model((*models.Game)(nil)).
			Where("g.parent_id = ?", game.ID).
			Count(ctx)
		if err != nil {
			return nil, err
		}

		startHole, fire := engine.EvaluateAutoPress(policy, parentState(game, players, cards), childCount, res)
		if !fire {
			continue
		}

		child, err := insertPress(ctx, tx, game, players, startHole, game.Stake, models.OriginAutoPress)
		if err != nil {
			return nil, err
		}
		created = append(created, child)
	}

	return created, nil
}

// pressPolicy loads the event's auto-press policy, falling back to the
// defaults when no row exists.
func (h *Handler) pressPolicy(ctx context.Context, db bun.IDB, eventID int64) (engine.PressPolicy, error) {
	row := &models.PressPolicyRow{}
	err := db.NewSelect().Model(row).Where("pp.event_id = ?", eventID).Scan(ctx)
	if err != nil {
		return engine.DefaultPressPolicy(), nil
	}
	return engine.PressPolicy{
		Enabled:          row.Enabled,
		TriggerThreshold: row.TriggerThreshold,
		MaxPresses:       row.MaxPresses,
	}, nil
}

// strokeAllocator builds a handicap lookup from the event's stored stroke
// allocations, reading through db so callers inside a transaction see their
// own snapshot.
func strokeAllocator(ctx context.Context, db bun.IDB, eventID int64) (engine.StrokeAllocator, error) {
	var allocs []models.StrokeAllocation
	err := db.NewSelect().Model(&allocs).
		Where("sa.event_id = ?", eventID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(allocs) == 0 {
		return engine.NoStrokes, nil
	}

	byPlayer := make(map[int64]map[int]int)
	for _, a := range allocs {
		if byPlayer[a.UserID] == nil {
			byPlayer[a.UserID] = make(map[int]int)
		}
		byPlayer[a.UserID][a.Hole] = a.Strokes
	}
	return func(playerID int64, hole int) int {
		return byPlayer[playerID][hole]
	}, nil
}

// GetScorecard returns all scores for a round grouped by player.
func (h *Handler) GetScorecard(c echo.Context) error {
	roundID := c.QueryParam("roundID")
	if roundID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing roundID param")
	}

	var scores []models.Score
	err := h.db.NewSelect().Model(&scores).
		Where("s.round_id = ?", roundID).
		OrderExpr("s.user_id, s.hole").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	byPlayer := make(map[int64][]models.Score)
	for _, s := range scores {
		byPlayer[s.UserID] = append(byPlayer[s.UserID], s)
	}

	return c.JSON(http.StatusOK, byPlayer)
}
