package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ForeO4/teeth/models"
)

// SearchPlayers searches golfer accounts by name pattern.
func (h *Handler) SearchPlayers(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q param not set")
	}

	var users []models.User
	err := h.db.NewSelect().
		Model(&users).
		Where("u.username ILIKE ? OR u.display_name ILIKE ?",
			fmt.Sprintf("%%%s%%", q), fmt.Sprintf("%%%s%%", q)).
		OrderExpr("u.username ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, users)
}

type rosterEntry struct {
	UserID int64 `json:"userID"`
	// Strokes received per hole, 1-18. Optional; missing holes receive zero.
	StrokeHoles map[string]int `json:"strokeHoles,omitempty"`
}

// SaveRoster adds golfers to an event's roster with their per-hole handicap
// stroke allocations. Existing allocations for a player are replaced.
func (h *Handler) SaveRoster(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var entries []rosterEntry
	if err := c.Bind(&entries); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(entries) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty roster payload")
	}

	for _, e := range entries {
		for hole, strokes := range e.StrokeHoles {
			n, err := strconv.Atoi(hole)
			if err != nil || n < 1 || n > 18 {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid hole %q", hole))
			}
			if strokes < 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "strokes must be non-negative")
			}
		}
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

	for _, e := range entries {
		member := &models.EventPlayer{EventID: eventID, UserID: e.UserID}
		_, err := tx.NewInsert().Model(member).
			On("CONFLICT (event_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		if _, err := tx.NewDelete().Model((*models.StrokeAllocation)(nil)).
			Where("event_id = ? AND user_id = ?", eventID, e.UserID).
			Exec(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		for hole, strokes := range e.StrokeHoles {
			if strokes == 0 {
				continue
			}
			n, _ := strconv.Atoi(hole)
			alloc := &models.StrokeAllocation{
				EventID: eventID,
				UserID:  e.UserID,
				Hole:    n,
				Strokes: strokes,
			}
			if _, err := tx.NewInsert().Model(alloc).Exec(ctx); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	committed = true

	return c.NoContent(http.StatusAccepted)
}

type rosterRow struct {
	UserID      int64  `bun:"user_id" json:"userID"`
	Username    string `bun:"username" json:"username"`
	DisplayName string `bun:"display_name" json:"displayName"`
}

// Roster returns the event's roster with display names.
func (h *Handler) Roster(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var rows []rosterRow
	err = h.db.NewSelect().
		TableExpr("event_players ep").
		ColumnExpr("ep.user_id, u.username, u.display_name").
		Join("INNER JOIN users u ON u.id = ep.user_id").
		Where("ep.event_id = ?", eventID).
		OrderExpr("u.username ASC").
		Scan(c.Request().Context(), &rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}
