package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ForeO4/teeth/models"
)

type createEventRequest struct {
	Name string `json:"name"`
}

// CreateEvent inserts a new event.
func (h *Handler) CreateEvent(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	event := &models.Event{Name: req.Name}
	if _, err := h.db.NewInsert().Model(event).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, event)
}

// Events returns all events, newest first.
func (h *Handler) Events(c echo.Context) error {
	var events []models.Event
	err := h.db.NewSelect().
		Model(&events).
		OrderExpr("e.created_at DESC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, events)
}

type createRoundRequest struct {
	EventID int64  `json:"eventID"`
	Date    string `json:"date"`
}

// CreateRound inserts a round under an event.
func (h *Handler) CreateRound(c echo.Context) error {
	var req createRoundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.EventID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "eventID is required")
	}
	if req.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.Event)(nil)).
		Where("e.id = ?", req.EventID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	round := &models.Round{EventID: req.EventID, Date: req.Date}
	if _, err := h.db.NewInsert().Model(round).Exec(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, round)
}
