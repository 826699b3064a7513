package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/fx"
)

// Coordinate is a geocoder hit for a street address.
type Coordinate struct {
	Lat          float64
	Lng          float64
	City         string
	Neighborhood string
}

// GeocodeService resolves street addresses through a Nominatim-style search
// endpoint. Geocoding is best-effort: any failure is reported as "no
// coordinate" so registration and profile updates never fail on it.
type GeocodeService struct {
	apiURL    string
	userAgent string
	viewbox   string
	region    string
	client    *http.Client
}

func NewGeocodeService(lc fx.Lifecycle, cfg *Config) *GeocodeService {
	service := &GeocodeService{
		apiURL:    cfg.GeoAPIURL,
		userAgent: cfg.GeoUserAgent,
		viewbox:   cfg.GeoViewbox,
		region:    cfg.GeoRegion,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Geocode service initialized")
			return nil
		},
	})
	return service
}

type nominatimHit struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		County        string `json:"county"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		District      string `json:"district"`
		Borough       string `json:"borough"`
	} `json:"address"`
}

// Lookup geocodes an address. It returns nil when the address is empty, the
// upstream call fails, or no result matches.
func (g *GeocodeService) Lookup(ctx context.Context, address string) *Coordinate {
	if address == "" {
		return nil
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s, %s", address, g.region))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")
	params.Set("bounded", "1")
	params.Set("viewbox", g.viewbox)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Println("Geocoding request build failed:", err)
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		log.Println("Geocoding request failed:", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Println("Geocoding request failed, status:", resp.StatusCode)
		return nil
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		log.Println("Geocoding response decode failed:", err)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}

	hit := hits[0]
	coord := &Coordinate{}
	if _, err := fmt.Sscanf(hit.Lat, "%f", &coord.Lat); err != nil {
		return nil
	}
	if _, err := fmt.Sscanf(hit.Lon, "%f", &coord.Lng); err != nil {
		return nil
	}

	coord.City = firstNonEmpty(hit.Address.City, hit.Address.Town, hit.Address.County)
	coord.Neighborhood = firstNonEmpty(hit.Address.Suburb, hit.Address.Neighbourhood, hit.Address.District, hit.Address.Borough)
	return coord
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
