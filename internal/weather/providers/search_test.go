package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var fastBackoff = BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

func TestOpenMeteoSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Busan", r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"results": [
			{"name": "Busan", "admin1": "Busan", "country": "South Korea", "latitude": 35.10168, "longitude": 129.03004}
		]}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), "")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	got, err := p.Search(context.Background(), "Busan")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Busan, Busan, South Korea", got[0].Label())
	require.Equal(t, 129.03004, got[0].Lon)
}

func TestOpenMeteoSearchNoResultsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"generationtime_ms": 0.5}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), "en")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	got, err := p.Search(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestOpenMeteoSearchRejectsMissingCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [{"name": "Busan", "country": "South Korea"}]}`)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), "")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	_, err := p.Search(context.Background(), "Busan")
	require.ErrorIs(t, err, weather.ErrMalformedResponse)
}

func TestOpenWeatherSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "ow-key", r.URL.Query().Get("appid"))
		fmt.Fprint(w, `[{"name": "London", "state": "England", "country": "GB", "lat": 51.5073219, "lon": -0.1276474}]`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "ow-key")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff

	got, err := p.Search(context.Background(), "London")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "London, England, GB", got[0].Label())
}

func TestOpenWeatherSearchRequiresKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	_, err := p.Search(context.Background(), "London")
	require.Error(t, err)
}

func TestGoogleGeocoderSearch(t *testing.T) {
	p := NewGoogleGeocoderProvider("g-key", time.Second)
	p.geocode = func(a geocoder.Address) (geocoder.Location, error) {
		require.Equal(t, "Tokyo", a.City)
		return geocoder.Location{Latitude: 35.6764, Longitude: 139.65}, nil
	}
	p.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		return []geocoder.Address{{City: "Tokyo", State: "Tokyo", Country: "Japan"}}, nil
	}

	got, err := p.Search(context.Background(), "Tokyo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Tokyo, Tokyo, Japan", got[0].Label())
	require.Equal(t, "35.6764,139.65", got[0].Coordinates().String())
}

// useGeocoderServer points the geocoder library at a local server for the
// duration of the test.
func useGeocoderServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	prev := geocoder.ApiUrl
	geocoder.ApiUrl = srv.URL + "/json?"
	t.Cleanup(func() {
		geocoder.ApiUrl = prev
		srv.Close()
	})
}

func TestGoogleGeocoderZeroResults(t *testing.T) {
	useGeocoderServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Atlantis", r.URL.Query().Get("address"))
		fmt.Fprint(w, `{"results": [], "status": "ZERO_RESULTS"}`)
	})
	p := NewGoogleGeocoderProvider("g-key", time.Second)

	got, err := p.Search(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGoogleGeocoderLibraryRoundTrip(t *testing.T) {
	useGeocoderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latlng") != "" {
			fmt.Fprint(w, `{"status": "OK", "results": [{"types": ["locality"], "address_components": [
				{"long_name": "Busan", "types": ["locality"]},
				{"long_name": "Busan", "types": ["administrative_area_level_1"]},
				{"long_name": "South Korea", "types": ["country"]}
			]}]}`)
			return
		}
		fmt.Fprint(w, `{"status": "OK", "results": [{"types": ["locality"], "geometry": {"location": {"lat": 35.1796, "lng": 129.0756}}}]}`)
	})
	p := NewGoogleGeocoderProvider("g-key", time.Second)

	got, err := p.Search(context.Background(), "Busan")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Busan, Busan, South Korea", got[0].Label())
	require.Equal(t, "35.1796,129.0756", got[0].Coordinates().String())
}

func TestGoogleGeocoderEmptyOKResponseIsAnError(t *testing.T) {
	useGeocoderServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [], "status": "OK"}`)
	})
	p := NewGoogleGeocoderProvider("g-key", time.Second)

	_, err := p.Search(context.Background(), "Nowhere")
	require.Error(t, err)
}

func TestGoogleGeocoderTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	p := NewGoogleGeocoderProvider("g-key", 20*time.Millisecond)
	p.geocode = func(geocoder.Address) (geocoder.Location, error) {
		<-release
		return geocoder.Location{}, nil
	}

	start := time.Now()
	_, err := p.Search(context.Background(), "Tokyo")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestGoogleGeocoderHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	p := NewGoogleGeocoderProvider("g-key", 0)
	started := make(chan struct{})
	p.geocode = func(geocoder.Address) (geocoder.Location, error) {
		close(started)
		<-release
		return geocoder.Location{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := p.Search(ctx, "Tokyo")
	require.ErrorIs(t, err, context.Canceled)
}

func TestGoogleGeocoderReverseFailureKeepsCandidate(t *testing.T) {
	p := NewGoogleGeocoderProvider("g-key", time.Second)
	p.geocode = func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{Latitude: 51.5, Longitude: -0.12}, nil
	}
	p.reverse = func(geocoder.Location) ([]geocoder.Address, error) {
		return nil, errors.New("REQUEST_DENIED")
	}

	got, err := p.Search(context.Background(), "London")
	require.NoError(t, err)
	require.Equal(t, "London", got[0].Name)
}
