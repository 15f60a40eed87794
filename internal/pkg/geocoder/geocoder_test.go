package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bostonResponse = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{
    "locations": [{
      "street": "233 Bay State Rd",
      "adminArea5": "Boston",
      "adminArea3": "MA",
      "adminArea1": "US",
      "postalCode": "02215",
      "latLng": {"lat": 42.350846, "lng": -71.104028}
    }]
  }]
}`

func newTestGeocoder(url string, retries int) *MapQuestGeocoder {
	return NewMapQuestGeocoder(Config{
		BaseURL:    url,
		APIKey:     "test-key",
		MaxRetries: retries,
		Timeout:    2 * time.Second,
		MinDelay:   time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}, zerolog.Nop())
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "233 Bay State Rd Boston MA 02215", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bostonResponse))
	}))
	defer srv.Close()

	loc, err := newTestGeocoder(srv.URL, 0).Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	require.NoError(t, err)

	assert.Equal(t, "Point", loc.Type)
	assert.Equal(t, -71.104028, loc.Longitude())
	assert.Equal(t, 42.350846, loc.Latitude())
	assert.Equal(t, "Boston", loc.City)
	assert.Equal(t, "02215", loc.Zipcode)
	assert.Equal(t, "233 Bay State Rd, Boston, MA 02215, US", loc.FormattedAddress)
}

func TestGeocodeRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(bostonResponse))
	}))
	defer srv.Close()

	loc, err := newTestGeocoder(srv.URL, 3).Geocode(context.Background(), "02215")
	require.NoError(t, err)
	assert.Equal(t, "MA", loc.State)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeocodeGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestGeocoder(srv.URL, 2).Geocode(context.Background(), "02215")
	assert.ErrorContains(t, err, "status 502")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info":{"statuscode":0},"results":[{"locations":[]}]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(srv.URL, 0).Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)

	_, err = newTestGeocoder(srv.URL, 0).Geocode(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeProviderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info":{"statuscode":403,"messages":["bad key"]},"results":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGeocoder(srv.URL, 0).Geocode(context.Background(), "02215")
	assert.ErrorContains(t, err, "bad key")
}
