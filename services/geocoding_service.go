package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Geocoder resolves a free-text location string to a (longitude, latitude)
// pair. Failures are reported as ErrGeocodingFailed so callers can surface
// them as retryable.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (lng float64, lat float64, err error)
}

// MapboxGeocoder calls the Mapbox places API. Results are cached in-process
// since the same zip codes and city names are looked up over and over.
type MapboxGeocoder struct {
	token   string
	baseURL string
	client  *http.Client
	cache   *ristretto.Cache
}

const geocodeCacheTTL = 24 * time.Hour

func NewMapboxGeocoder(token string) *MapboxGeocoder {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		// Config above is static; NewCache only fails on invalid config.
		panic(fmt.Sprintf("geocode cache init: %v", err))
	}

	return &MapboxGeocoder{
		token:   token,
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
	}
}

// NewMapboxGeocoderWithBaseURL is used by tests to point at a fake server.
func NewMapboxGeocoderWithBaseURL(token, baseURL string) *MapboxGeocoder {
	g := NewMapboxGeocoder(token)
	g.baseURL = baseURL
	return g
}

type geocodePoint struct {
	Lng float64
	Lat float64
}

type mapboxResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

func (g *MapboxGeocoder) Geocode(ctx context.Context, location string) (float64, float64, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return 0, 0, fmt.Errorf("%w: empty location", ErrGeocodingFailed)
	}

	if cached, found := g.cache.Get(key); found {
		point := cached.(geocodePoint)
		return point.Lng, point.Lat, nil
	}

	reqURL := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1",
		g.baseURL, url.PathEscape(location), url.QueryEscape(g.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocodingFailed, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocodingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: geocoder returned status %d", ErrGeocodingFailed, resp.StatusCode)
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocodingFailed, err)
	}

	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return 0, 0, fmt.Errorf("%w: no match for %q", ErrGeocodingFailed, location)
	}

	lng, lat := body.Features[0].Center[0], body.Features[0].Center[1]
	g.cache.SetWithTTL(key, geocodePoint{Lng: lng, Lat: lat}, 1, geocodeCacheTTL)

	return lng, lat, nil
}
