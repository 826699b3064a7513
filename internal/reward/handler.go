package reward

import (
	"net/http"

	"OliaRewards/internal/apperr"
	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RewardHandler struct {
	service *RewardService
}

func NewRewardHandler(service *RewardService) *RewardHandler {
	return &RewardHandler{service: service}
}

// ListCatalog serves the catalog; school callers get their request state
// overlaid on each entry.
func (h *RewardHandler) ListCatalog(c echo.Context) error {
	claims, err := auth.CallerClaims(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if claims.Role == auth.RoleSchool {
		schoolID, _, err := auth.CallerID(c)
		if err != nil {
			return apperr.Respond(c, err)
		}
		rewards, err := h.service.ListCatalogForSchool(c.Request().Context(), schoolID)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.JSON(http.StatusOK, rewards)
	}

	rewards, err := h.service.ListCatalog(c.Request().Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rewards)
}

func (h *RewardHandler) Request(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	request, err := h.service.Request(c.Request().Context(), schoolID, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Reward request created successfully",
		"request": request,
	})
}

func (h *RewardHandler) ListMine(c echo.Context) error {
	schoolID, _, err := auth.CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	requests, err := h.service.ListForSchool(c.Request().Context(), schoolID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *RewardHandler) ListAll(c echo.Context) error {
	requests, err := h.service.ListAll(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *RewardHandler) Approve(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Reward request not found"))
	}

	request, err := h.service.Approve(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reward approved successfully",
		"request": request,
	})
}

func (h *RewardHandler) Deny(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Respond(c, apperr.NotFound("Reward request not found"))
	}

	request, err := h.service.Deny(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reward denied",
		"request": request,
	})
}
