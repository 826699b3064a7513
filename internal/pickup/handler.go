package pickup

import (
	"net/http"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
)

type PickupHandler struct {
	service *PickupService
}

func NewPickupHandler(service *PickupService) *PickupHandler {
	return &PickupHandler{service: service}
}

func (h *PickupHandler) ListLocations(c echo.Context) error {
	locations, err := h.service.ListLocations(c.Request().Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, locations)
}

func (h *PickupHandler) Request(c echo.Context) error {
	citizenID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req RequestPickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	pickup, err := h.service.Request(c.Request().Context(), citizenID, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Pickup scheduled successfully",
		"pickup":  pickup,
	})
}

func (h *PickupHandler) ListMine(c echo.Context) error {
	citizenID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	pickups, err := h.service.ListForCitizen(c.Request().Context(), citizenID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pickups)
}

func (h *PickupHandler) ListAll(c echo.Context) error {
	pickups, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, pickups)
}
