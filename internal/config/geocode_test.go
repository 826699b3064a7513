package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newGeocoder(t *testing.T, upstream string) *GeocodeService {
	t.Helper()
	lc := fxtest.NewLifecycle(t)
	svc := NewGeocodeService(lc, &Config{
		GeoAPIURL:    upstream,
		GeoUserAgent: "olia-rewards-test",
		GeoViewbox:   "-35.05,-8.00,-34.80,-8.25",
		GeoRegion:    "Recife, Pernambuco, Brasil",
	})
	lc.RequireStart()
	t.Cleanup(lc.RequireStop)
	return svc
}

func TestLookupParsesHit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "olia-rewards-test", r.Header.Get("User-Agent"))
		assert.Contains(t, r.URL.Query().Get("q"), "Recife")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"-8.057","lon":"-34.882","address":{"city":"Recife","suburb":"Boa Vista"}}]`))
	}))
	defer server.Close()

	coord := newGeocoder(t, server.URL).Lookup(context.Background(), "Av. Central, 100")
	require.NotNil(t, coord)
	assert.InDelta(t, -8.057, coord.Lat, 0.0001)
	assert.InDelta(t, -34.882, coord.Lng, 0.0001)
	assert.Equal(t, "Recife", coord.City)
	assert.Equal(t, "Boa Vista", coord.Neighborhood)
}

func TestLookupDegradesToNil(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer empty.Close()

	assert.Nil(t, newGeocoder(t, failing.URL).Lookup(context.Background(), "Av. Central, 100"))
	assert.Nil(t, newGeocoder(t, empty.URL).Lookup(context.Background(), "Av. Central, 100"))
	assert.Nil(t, newGeocoder(t, empty.URL).Lookup(context.Background(), ""))
}
