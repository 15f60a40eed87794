package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"github.com/rs/zerolog"
	"github.com/yigit/devcamper/internal/app/models"
)

// ErrNoResults is returned when the provider cannot place an address
var ErrNoResults = errors.New("address could not be geocoded")

// Geocoder resolves free-form addresses and zipcodes to a location
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

// Config configures the MapQuest compatible client
type Config struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	Timeout    time.Duration
	MinDelay   time.Duration
	MaxDelay   time.Duration
}

// MapQuestGeocoder calls the MapQuest geocoding API
type MapQuestGeocoder struct {
	config Config
	client *http.Client
	logger zerolog.Logger
}

// NewMapQuestGeocoder creates a geocoder whose transport retries temporary
// network errors and 429/5xx responses with exponential jitter.
func NewMapQuestGeocoder(cfg Config, logger zerolog.Logger) *MapQuestGeocoder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = 200 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}

	transport := rehttp.NewTransport(
		http.DefaultTransport,
		rehttp.RetryAll(
			rehttp.RetryMaxRetries(cfg.MaxRetries),
			rehttp.RetryHTTPMethods(http.MethodGet),
			rehttp.RetryAny(
				rehttp.RetryTemporaryErr(),
				rehttp.RetryStatuses(
					http.StatusTooManyRequests,
					http.StatusInternalServerError,
					http.StatusBadGateway,
					http.StatusServiceUnavailable,
					http.StatusGatewayTimeout,
				),
			),
		),
		rehttp.ExpJitterDelay(cfg.MinDelay, cfg.MaxDelay),
	)

	return &MapQuestGeocoder{
		config: cfg,
		client: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		logger: logger.With().Str("component", "geocoder").Logger(),
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []mapQuestLocation `json:"locations"`
	} `json:"results"`
}

type mapQuestLocation struct {
	Street     string `json:"street"`
	City       string `json:"adminArea5"`
	State      string `json:"adminArea3"`
	Country    string `json:"adminArea1"`
	PostalCode string `json:"postalCode"`
	LatLng     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"latLng"`
}

// Geocode resolves address to its first match
func (g *MapQuestGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrNoResults
	}

	params := url.Values{}
	params.Set("key", g.config.APIKey)
	params.Set("location", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("address", address).Msg("Geocode request failed")
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Error().Int("status", resp.StatusCode).Str("address", address).Msg("Geocoder returned an error")
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocoder status %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoResults
	}

	return toLocation(body.Results[0].Locations[0]), nil
}

func toLocation(l mapQuestLocation) *models.Location {
	loc := &models.Location{
		Type:        "Point",
		Coordinates: [2]float64{l.LatLng.Lng, l.LatLng.Lat},
		Street:      l.Street,
		City:        l.City,
		State:       l.State,
		Zipcode:     l.PostalCode,
		Country:     l.Country,
	}

	var parts []string
	for _, p := range []string{l.Street, l.City, strings.TrimSpace(l.State + " " + l.PostalCode), l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	loc.FormattedAddress = strings.Join(parts, ", ")
	return loc
}
