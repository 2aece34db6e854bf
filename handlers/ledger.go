package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ForeO4/teeth/cache"
	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

func ledgerCacheKey(eventID int64) string {
	return fmt.Sprintf("ledger:event:%d", eventID)
}

type ledgerPosition struct {
	UserID      int64  `json:"userID"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Net         int    `json:"net"`
}

type ledgerResponse struct {
	EventID   int64            `json:"eventID"`
	Positions []ledgerPosition `json:"positions"`
}

// EventLedger returns every roster member's net position. Positions are
// recomputed from the full settlement history rather than read from stored
// balances, so the response stays correct even if balance rows were lost.
func (h *Handler) EventLedger(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	ctx := c.Request().Context()

	var cached ledgerResponse
	if hit, err := cache.Get(ctx, h.rdb, ledgerCacheKey(eventID), &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	var roster []rosterRow
	err = h.db.NewSelect().
		TableExpr("event_players ep").
		ColumnExpr("ep.user_id, u.username, u.display_name").
		Join("INNER JOIN users u ON u.id = ep.user_id").
		Where("ep.event_id = ?", eventID).
		OrderExpr("u.username ASC").
		Scan(ctx, &roster)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var settlements []models.Settlement
	err = h.db.NewSelect().Model(&settlements).
		Where("st.event_id = ?", eventID).
		OrderExpr("st.id ASC").
		Scan(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ids := make([]int64, len(roster))
	for i, r := range roster {
		ids[i] = r.UserID
	}
	history := make([]engine.DeltaSet, len(settlements))
	for i, s := range settlements {
		history[i] = engine.Settlement{
			PayerID: s.PayerID,
			PayeeID: s.PayeeID,
			Amount:  s.Amount,
			Segment: engine.Segment(s.Segment),
		}.Legs()
	}

	balances, err := engine.NetPositions(ids, history)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := ledgerResponse{EventID: eventID, Positions: make([]ledgerPosition, 0, len(balances))}
	for _, r := range roster {
		resp.Positions = append(resp.Positions, ledgerPosition{
			UserID:      r.UserID,
			Username:    r.Username,
			DisplayName: r.DisplayName,
			Net:         balances[r.UserID],
		})
	}
	// Settlements can name a player later dropped from the roster. Their
	// balance still counts toward the zero sum, so surface it.
	for id, net := range balances {
		if !containsID(ids, id) {
			resp.Positions = append(resp.Positions, ledgerPosition{UserID: id, Net: net})
		}
	}

	_ = cache.Set(ctx, h.rdb, ledgerCacheKey(eventID), resp, 60*time.Second)

	return c.JSON(http.StatusOK, resp)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// EventSettlements lists an event's settlement history, oldest first.
func (h *Handler) EventSettlements(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var settlements []models.Settlement
	err = h.db.NewSelect().Model(&settlements).
		Where("st.event_id = ?", eventID).
		OrderExpr("st.id ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, settlements)
}
