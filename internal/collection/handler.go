package collection

import (
	"net/http"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CollectionHandler struct {
	service *CollectionService
}

func NewCollectionHandler(service *CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

func (h *CollectionHandler) Request(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req RequestCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	record, err := h.service.Request(c.Request().Context(), schoolID, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "Collection requested successfully",
		"collection": record,
	})
}

func (h *CollectionHandler) ListMine(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	records, err := h.service.ListForSchool(c.Request().Context(), schoolID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *CollectionHandler) ListAll(c echo.Context) error {
	records, err := h.service.ListAll(c.Request().Context(), c.QueryParam("status"), c.QueryParam("city"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *CollectionHandler) Schedule(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Collection not found"))
	}

	var req ScheduleCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	record, err := h.service.Schedule(c.Request().Context(), id, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Collection scheduled successfully",
		"collection": record,
	})
}

func (h *CollectionHandler) Complete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Collection not found"))
	}

	var req CompleteCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	record, err := h.service.Complete(c.Request().Context(), id, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Collection completed successfully",
		"collection": record,
	})
}
