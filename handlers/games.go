package handlers

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

type gamePlayerReq struct {
	UserID int64  `json:"userID"`
	Side   string `json:"side"`
}

type createGameRequest struct {
	EventID   int64           `json:"eventID"`
	RoundID   int64           `json:"roundID"`
	Format    string          `json:"format"`
	Stake     float64         `json:"stake"`
	StartHole int             `json:"startHole"`
	EndHole   int             `json:"endHole"`
	Players   []gamePlayerReq `json:"players"`
}

// intStake rejects negative or fractional stakes before anything downstream
// sees them.
func intStake(stake float64) (int, error) {
	if stake < 0 || stake != math.Trunc(stake) {
		return 0, &engine.ValidationError{Reason: engine.ReasonNegativeStake}
	}
	return int(stake), nil
}

// engineHTTPError maps engine error types onto HTTP statuses: validation
// failures are 400 with the exact reason, conflicts are 409.
func engineHTTPError(err error) *echo.HTTPError {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Reason)
	}
	if errors.Is(err, engine.ErrAlreadySettled) || errors.Is(err, engine.ErrPressLimit) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// CreateGame inserts a root wager and its player assignments.
func (h *Handler) CreateGame(c echo.Context) error {
	var req createGameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stake, err := intStake(req.Stake)
	if err != nil {
		return engineHTTPError(err)
	}
	if req.StartHole < 1 || req.EndHole > 18 || req.StartHole > req.EndHole {
		return echo.NewHTTPError(http.StatusBadRequest, "hole range must satisfy 1 <= start <= end <= 18")
	}
	if err := validateSides(req.Format, req.Players); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	round := &models.Round{}
	err = h.db.NewSelect().Model(round).Where("rd.id = ?", req.RoundID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "round not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if round.EventID != req.EventID {
		return echo.NewHTTPError(http.StatusBadRequest, "round does not belong to event")
	}

	for _, p := range req.Players {
		onRoster, err := h.db.NewSelect().Model((*models.EventPlayer)(nil)).
			Where("ep.event_id = ? AND ep.user_id = ?", req.EventID, p.UserID).
			Exists(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !onRoster {
			return echo.NewHTTPError(http.StatusBadRequest, "player not on event roster")
		}
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

	game := &models.Game{
		EventID:   req.EventID,
		RoundID:   req.RoundID,
		Format:    req.Format,
		Stake:     stake,
		StartHole: req.StartHole,
		EndHole:   req.EndHole,
		Status:    engine.StatusActive,
		Origin:    models.OriginSetup,
	}
	if _, err := tx.NewInsert().Model(game).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sidePos := map[string]int{}
	for _, p := range req.Players {
		gp := &models.GamePlayer{GameID: game.ID, UserID: p.UserID, Side: p.Side, Position: sidePos[p.Side]}
		sidePos[p.Side]++
		if _, err := tx.NewInsert().Model(gp).Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err = tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.JSON(http.StatusCreated, game)
}

func validateSides(format string, players []gamePlayerReq) error {
	counts := map[string]int{}
	for _, p := range players {
		if p.Side != engine.SideA.String() && p.Side != engine.SideB.String() {
			return errors.New(`side must be "a" or "b"`)
		}
		counts[p.Side]++
	}

	switch format {
	case models.FormatMatchPlay, models.FormatNassau:
		if counts["a"] != 1 || counts["b"] != 1 {
			return errors.New("head-to-head formats need exactly one player per side")
		}
	case models.FormatHighLowTotal:
		if counts["a"] < 1 || counts["a"] > 2 || counts["b"] < 1 || counts["b"] > 2 || len(players) < 3 {
			return errors.New("high-low-total needs three or four players split across two sides")
		}
	default:
		return errors.New("unknown format")
	}
	return nil
}

type gameNode struct {
	models.Game
	Players  []models.GamePlayer `json:"players"`
	Children []*gameNode         `json:"children"`
}

// Games returns an event's games with the press tree reconstructed by
// grouping on parent id. Storage is flat; the tree only exists in this
// read model.
func (h *Handler) Games(c echo.Context) error {
	eventID := c.QueryParam("eventID")
	if eventID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing eventID param")
	}

	ctx := c.Request().Context()

	var games []models.Game
	err := h.db.NewSelect().Model(&games).
		Where("g.event_id = ?", eventID).
		OrderExpr("g.id ASC").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	nodes := make(map[int64]*gameNode, len(games))
	order := make([]int64, 0, len(games))
	for _, g := range games {
		nodes[g.ID] = &gameNode{Game: g, Players: []models.GamePlayer{}, Children: []*gameNode{}}
		order = append(order, g.ID)
	}

	if len(games) > 0 {
		var players []models.GamePlayer
		err = h.db.NewSelect().Model(&players).
			Where("gp.game_id IN (?)", bun.In(order)).
			OrderExpr("gp.game_id, gp.side, gp.position").
			Scan(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		for _, p := range players {
			nodes[p.GameID].Players = append(nodes[p.GameID].Players, p)
		}
	}

	roots := []*gameNode{}
	for _, id := range order {
		n := nodes[id]
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	return c.JSON(http.StatusOK, roots)
}

type segmentState struct {
	Segment engine.Segment     `json:"segment"`
	Results []engine.HoleResult `json:"results"`
	HolesUp int                `json:"holesUp"`
	Leader  string             `json:"leader"` // "a", "b", or "tie"
	Played  int                `json:"holesPlayed"`
}

// GameState returns the live standing of a game: hole results and holes-up
// per segment, straight from the aggregator over whatever scores exist.
func (h *Handler) GameState(c echo.Context) error {
	gameID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid game id")
	}

	ctx := c.Request().Context()

	game := &models.Game{}
	if err := h.db.NewSelect().Model(game).Where("g.id = ?", gameID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "game not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	players, err := loadGamePlayers(ctx, h.db, gameID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	cards, err := loadScorecards(ctx, h.db, game.RoundID, playerIDs(players))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if game.Format == models.FormatHighLowTotal {
		teamA, teamB := sideTeams(players)
		strokes, err := strokeAllocator(ctx, h.db, game.EventID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		out := engine.SettleHighLowTotal(game.Stake, game.StartHole, game.EndHole, teamA, teamB, cards, strokes)
		return c.JSON(http.StatusOK, map[string]any{
			"game":      game,
			"standings": map[string]engine.TeamStandings{"a": out.TeamA, "b": out.TeamB},
			"pointDiff": out.PointDiff,
		})
	}

	a, b := sideCards(players, cards)
	var states []segmentState
	if game.Format == models.FormatNassau {
		states = append(states,
			segState(engine.SegmentFront, 1, 9, a, b),
			segState(engine.SegmentBack, 10, 18, a, b),
			segState(engine.SegmentOverall, game.StartHole, game.EndHole, a, b),
		)
	} else {
		states = append(states, segState(engine.SegmentMatch, game.StartHole, game.EndHole, a, b))
	}

	return c.JSON(http.StatusOK, map[string]any{"game": game, "segments": states})
}

func segState(seg engine.Segment, start, end int, a, b engine.Scorecard) segmentState {
	results, res := engine.MatchState(start, end, a, b)
	return segmentState{
		Segment: seg,
		Results: results,
		HolesUp: res.HolesUp,
		Leader:  res.Winner.String(),
		Played:  res.HolesPlayed,
	}
}

type pressRequest struct {
	StartHole int     `json:"startHole"`
	Stake     float64 `json:"stake"`
}

// CreatePress validates and creates a manual press on a game. The parent row
// is locked for the duration so a concurrent settle or auto-press cannot
// interleave.
func (h *Handler) CreatePress(c echo.Context) error {
	parentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid game id")
	}

	var req pressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stake, err := intStake(req.Stake)
	if err != nil {
		return engineHTTPError(err)
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

	parent := &models.Game{}
	err = tx.NewSelect().Model(parent).Where("g.id = ?", parentID).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "game not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	players, err := loadGamePlayers(ctx, tx, parentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	cards, err := loadScorecards(ctx, tx, parent.RoundID, playerIDs(players))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := engine.ValidatePress(parentState(parent, players, cards), req.StartHole, stake); err != nil {
		return engineHTTPError(err)
	}

	policy, err := h.pressPolicy(ctx, tx, parent.EventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	childCount, err := tx.NewSelect().Model((*models.Game)(nil)).
		Where("g.parent_id = ?", parent.ID).
		Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := engine.CheckPressCap(policy, childCount); err != nil {
		return engineHTTPError(err)
	}

	child, err := insertPress(ctx, tx, parent, players, req.StartHole, stake, models.OriginPress)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err = tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.JSON(http.StatusCreated, child)
}

// insertPress creates the child wager: parent's end hole and participants,
// its own stake, active with no scores.
func insertPress(ctx context.Context, tx bun.Tx, parent *models.Game, players []models.GamePlayer, startHole, stake int, origin string) (*models.Game, error) {
	child := &models.Game{
		EventID:   parent.EventID,
		RoundID:   parent.RoundID,
		Format:    parent.Format,
		Stake:     stake,
		ParentID:  &parent.ID,
		StartHole: startHole,
		EndHole:   parent.EndHole,
		Status:    engine.StatusActive,
		Origin:    origin,
	}
	if _, err := tx.NewInsert().Model(child).Exec(ctx); err != nil {
		return nil, err
	}

	for _, p := range players {
		gp := &models.GamePlayer{GameID: child.ID, UserID: p.UserID, Side: p.Side, Position: p.Position}
		if _, err := tx.NewInsert().Model(gp).Exec(ctx); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// parentState assembles the slice of a game the press validator works on.
// The current hole only considers the two sides' first players, which is all
// head-to-head formats have.
func parentState(g *models.Game, players []models.GamePlayer, cards map[int64]engine.Scorecard) engine.ParentState {
	a, b := sideCards(players, cards)
	return engine.ParentState{
		Status:      g.Status,
		StartHole:   g.StartHole,
		EndHole:     g.EndHole,
		Stake:       g.Stake,
		CurrentHole: engine.CurrentHole(g.StartHole, g.EndHole, a, b),
	}
}

func loadGamePlayers(ctx context.Context, db bun.IDB, gameID int64) ([]models.GamePlayer, error) {
	var players []models.GamePlayer
	err := db.NewSelect().Model(&players).
		Where("gp.game_id = ?", gameID).
		OrderExpr("gp.side, gp.position").
		Scan(ctx)
	return players, err
}

func playerIDs(players []models.GamePlayer) []int64 {
	ids := make([]int64, len(players))
	for i, p := range players {
		ids[i] = p.UserID
	}
	return ids
}

// sideTeams splits game players into the two teams by side.
func sideTeams(players []models.GamePlayer) (engine.Team, engine.Team) {
	var a, b engine.Team
	for _, p := range players {
		if p.Side == engine.SideA.String() {
			a.Players = append(a.Players, p.UserID)
		} else {
			b.Players = append(b.Players, p.UserID)
		}
	}
	return a, b
}

// sideCards returns the scorecards of the first player listed on each side.
// Players arrive ordered by side and position, so the first hit per side wins
// whatever absolute position values the rows carry.
func sideCards(players []models.GamePlayer, cards map[int64]engine.Scorecard) (engine.Scorecard, engine.Scorecard) {
	a, b := engine.Scorecard{}, engine.Scorecard{}
	seenA, seenB := false, false
	for _, p := range players {
		card, ok := cards[p.UserID]
		if !ok {
			continue
		}
		if p.Side == engine.SideA.String() && !seenA {
			a, seenA = card, true
		}
		if p.Side == engine.SideB.String() && !seenB {
			b, seenB = card, true
		}
	}
	return a, b
}

func loadScorecards(ctx context.Context, db bun.IDB, roundID int64, userIDs []int64) (map[int64]engine.Scorecard, error) {
	cards := make(map[int64]engine.Scorecard, len(userIDs))
	for _, id := range userIDs {
		cards[id] = engine.Scorecard{}
	}
	if len(userIDs) == 0 {
		return cards, nil
	}

	var scores []models.Score
	err := db.NewSelect().Model(&scores).
		Where("s.round_id = ?", roundID).
		Where("s.user_id IN (?)", bun.In(userIDs)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range scores {
		cards[s.UserID][s.Hole] = s.Strokes
	}
	return cards, nil
}
