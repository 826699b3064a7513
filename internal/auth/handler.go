package auth

import (
	"net/http"

	"OliaRewards/internal/apperr"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountHandler struct {
	service *AccountService
}

func NewAccountHandler(service *AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CallerClaims pulls the JWT claims the middleware stored on the context.
func CallerClaims(c echo.Context) (*JWTClaims, error) {
	claims, ok := c.Get("user").(*JWTClaims)
	if !ok || claims == nil {
		return nil, apperr.Unauthenticated("Missing token")
	}
	return claims, nil
}

// CallerID is the authenticated account id as an ObjectID.
func CallerID(c echo.Context) (primitive.ObjectID, *JWTClaims, error) {
	claims, err := CallerClaims(c)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, nil, apperr.Unauthenticated("Invalid token subject")
	}
	return id, claims, nil
}

func (h *AccountHandler) RegisterCitizen(c echo.Context) error {
	var req RegisterCitizenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	citizen, token, err := h.service.RegisterCitizen(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Citizen registered successfully",
		"user":    citizen,
		"token":   token,
	})
}

func (h *AccountHandler) RegisterSchool(c echo.Context) error {
	var req RegisterSchoolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	school, token, err := h.service.RegisterSchool(c.Request().Context(), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "School registered successfully",
		"school":  school,
		"token":   token,
	})
}

func (h *AccountHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	account, role, token, err := h.service.Login(c.Request().Context(), cred)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    account,
		"token":   token,
		"type":    role,
	})
}

func (h *AccountHandler) Me(c echo.Context) error {
	claims, err := CallerClaims(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	account, err := h.service.Me(c.Request().Context(), claims)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": account, "type": claims.Role})
}

func (h *AccountHandler) CitizenProfile(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	citizen, err := h.service.CitizenProfile(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, citizen)
}

func (h *AccountHandler) UpdateCitizenProfile(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req UpdateCitizenProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	citizen, err := h.service.UpdateCitizenProfile(c.Request().Context(), id, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    citizen,
	})
}

func (h *AccountHandler) CitizenStats(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	stats, err := h.service.CitizenStatistics(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AccountHandler) SchoolProfile(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	school, err := h.service.SchoolProfile(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, school)
}

func (h *AccountHandler) UpdateSchoolProfile(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req UpdateSchoolProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	school, err := h.service.UpdateSchoolProfile(c.Request().Context(), id, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"school":  school,
	})
}

func (h *AccountHandler) SchoolStats(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	stats, err := h.service.SchoolStatistics(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AccountHandler) SchoolRanking(c echo.Context) error {
	id, _, err := CallerID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	ranking, currentRank, err := h.service.SchoolRanking(c.Request().Context(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ranking":     ranking,
		"currentRank": currentRank,
	})
}

// PublicSchools serves the open map listing, no token required.
func (h *AccountHandler) PublicSchools(c echo.Context) error {
	schools, err := h.service.PublicSchools(c.Request().Context(), c.QueryParam("city"), c.QueryParam("neighborhood"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, schools)
}
