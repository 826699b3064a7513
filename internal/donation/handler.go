package donation

import (
	"net/http"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationHandler struct {
	service *DonationService
}

func NewDonationHandler(service *DonationService) *DonationHandler {
	return &DonationHandler{service: service}
}

func (h *DonationHandler) Create(c echo.Context) error {
	citizenID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req CreateDonationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	donation, err := h.service.Create(c.Request().Context(), citizenID, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Donation registered successfully",
		"donation": donation,
	})
}

func (h *DonationHandler) ListMine(c echo.Context) error {
	citizenID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	donations, err := h.service.ListForCitizen(c.Request().Context(), citizenID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, donations)
}

func (h *DonationHandler) ListForSchool(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	donations, err := h.service.ListForSchool(c.Request().Context(), schoolID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, donations)
}

func (h *DonationHandler) Confirm(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	donationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Donation not found"))
	}

	donation, err := h.service.Confirm(c.Request().Context(), schoolID, donationID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Donation confirmed successfully",
		"donation": donation,
	})
}
