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

// OpenMeteoProvider implements location.Searcher with the keyless
// Open-Meteo geocoding API.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	limit   int
	lang    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, lang string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://geocoding-api.open-meteo.com/v1/search",
		limit:   10,
		lang:    lang,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Search(ctx context.Context, query string) ([]location.Candidate, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", strconv.Itoa(p.limit))
		values.Set("format", "json")
		if p.lang != "" {
			values.Set("language", p.lang)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// "results" is omitted entirely when nothing matches.
	var payload struct {
		Results []struct {
			Name      string   `json:"name" validate:"required"`
			Admin1    string   `json:"admin1"`
			Country   string   `json:"country"`
			Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
			Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
		} `json:"results" validate:"dive"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", weather.ErrMalformedResponse, p.name, err)
	}
	if err := validatePayload(p.name, &payload); err != nil {
		return nil, err
	}

	candidates := make([]location.Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		candidates = append(candidates, location.Candidate{
			Name:    r.Name,
			Region:  r.Admin1,
			Country: r.Country,
			Lat:     *r.Latitude,
			Lon:     *r.Longitude,
		})
	}
	return candidates, nil
}

var _ location.Searcher = (*OpenMeteoProvider)(nil)
