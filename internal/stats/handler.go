package stats

import (
	"net/http"
	"strconv"

	"OliaRewards/internal/apperr"

	"github.com/labstack/echo/v4"
)

type StatsHandler struct {
	service *StatsService
}

func NewStatsHandler(service *StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Global(c echo.Context) error {
	stats, err := h.service.Global(c.Request().Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) TopSchools(c echo.Context) error {
	// Unparsable or non-positive limits fall back to the service default.
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = parsed
		}
	}

	schools, err := h.service.TopSchools(c.Request().Context(), limit)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, schools)
}

func (h *StatsHandler) ListSchools(c echo.Context) error {
	city := c.QueryParam("city")
	var isActive *bool
	if raw := c.QueryParam("isActive"); raw != "" {
		active := raw == "true"
		isActive = &active
	}

	schools, err := h.service.ListSchools(c.Request().Context(), city, isActive)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, schools)
}
