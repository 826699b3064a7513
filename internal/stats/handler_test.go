package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"OliaRewards/internal/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTopSchoolsHandlerCoercesBadLimit(t *testing.T) {
	schools := &stubSchoolAccounts{schools: []*auth.School{
		{ID: primitive.NewObjectID(), Name: "Primeira", Points: 900},
		{ID: primitive.NewObjectID(), Name: "Segunda", Points: 500},
		{ID: primitive.NewObjectID(), Name: "Terceira", Points: 100},
	}}
	svc := NewStatsService(&stubDonationLedger{}, schools, &stubCitizenAccounts{})
	h := NewStatsHandler(svc)
	e := echo.New()

	// Garbage, negative and missing limits all land on the default of ten.
	for _, query := range []string{"?limit=abc", "?limit=-5", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/government/schools/top"+query, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.TopSchools(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var ranked []TopSchool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranked))
		require.Len(t, ranked, 3)
		assert.Equal(t, "Primeira", ranked[0].Name)
	}

	// A valid limit is still honored.
	req := httptest.NewRequest(http.MethodGet, "/api/government/schools/top?limit=2", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.TopSchools(e.NewContext(req, rec)))

	var ranked []TopSchool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranked))
	assert.Len(t, ranked, 2)
}
