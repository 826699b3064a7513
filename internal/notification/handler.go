package notification

import (
	"net/http"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	service *NotificationService
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c echo.Context) error {
	claims, err := auth.CallerClaims(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var isRead *bool
	if raw := c.QueryParam("isRead"); raw != "" {
		read := raw == "true"
		isRead = &read
	}

	notifications, err := h.service.ListForCaller(c.Request().Context(), claims, isRead)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	claims, err := auth.CallerClaims(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Notification not found"))
	}

	if err := h.service.MarkRead(c.Request().Context(), claims, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) Create(c echo.Context) error {
	var req CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	delivered, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Notification sent",
		"delivered": delivered,
	})
}
