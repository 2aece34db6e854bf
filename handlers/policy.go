package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ForeO4/teeth/engine"
	"github.com/ForeO4/teeth/models"
)

// GetPressPolicy returns the event's auto-press policy. Events with no stored
// row report the default.
func (h *Handler) GetPressPolicy(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	policy, err := h.pressPolicy(c.Request().Context(), h.db, eventID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, policy)
}

// PutPressPolicy replaces the event's auto-press policy. Invalid parameters
// are rejected whole; a bad threshold never half-applies.
func (h *Handler) PutPressPolicy(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var policy engine.PressPolicy
	if err := c.Bind(&policy); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := policy.Validate(); err != nil {
		return engineHTTPError(err)
	}

	ctx := c.Request().Context()
	exists, err := h.db.NewSelect().Model((*models.Event)(nil)).
		Where("e.id = ?", eventID).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	row := &models.PressPolicyRow{
		EventID:          eventID,
		Enabled:          policy.Enabled,
		TriggerThreshold: policy.TriggerThreshold,
		MaxPresses:       policy.MaxPresses,
	}
	_, err = h.db.NewInsert().Model(row).
		On("CONFLICT (event_id) DO UPDATE").
		Set("enabled = EXCLUDED.enabled").
		Set("trigger_threshold = EXCLUDED.trigger_threshold").
		Set("max_presses = EXCLUDED.max_presses").
		Exec(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, policy)
}
