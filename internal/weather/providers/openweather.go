package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// OpenWeatherProvider implements location.Searcher with OpenWeatherMap's
// direct geocoding endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	limit   int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/geo/1.0/direct",
		limit:   5,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Search(ctx context.Context, query string) ([]location.Candidate, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("q", query)
		values.Set("limit", strconv.Itoa(p.limit))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string   `json:"name" validate:"required"`
		State   string   `json:"state"`
		Country string   `json:"country"`
		Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
		Lon     *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", weather.ErrMalformedResponse, p.name, err)
	}

	candidates := make([]location.Candidate, 0, len(payload))
	for i := range payload {
		if err := validatePayload(p.name, &payload[i]); err != nil {
			return nil, err
		}
		candidates = append(candidates, location.Candidate{
			Name:    payload[i].Name,
			Region:  payload[i].State,
			Country: payload[i].Country,
			Lat:     *payload[i].Lat,
			Lon:     *payload[i].Lon,
		})
	}
	return candidates, nil
}

var _ location.Searcher = (*OpenWeatherProvider)(nil)
