package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const defaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements location search and forecasts for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: defaultWeatherAPIBaseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPISearchItem struct {
	Name    string   `json:"name" validate:"required"`
	Region  string   `json:"region"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// Search calls /search.json. An empty array means no match.
func (p *WeatherAPIProvider) Search(ctx context.Context, query string) ([]location.Candidate, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	var items []weatherAPISearchItem
	if err := p.get(ctx, "/search.json", url.Values{"q": {query}}, &items); err != nil {
		return nil, err
	}

	candidates := make([]location.Candidate, 0, len(items))
	for i := range items {
		if err := validatePayload(p.name, &items[i]); err != nil {
			return nil, err
		}
		candidates = append(candidates, location.Candidate{
			Name:    items[i].Name,
			Region:  items[i].Region,
			Country: items[i].Country,
			Lat:     *items[i].Lat,
			Lon:     *items[i].Lon,
		})
	}
	return candidates, nil
}

type weatherAPIForecast struct {
	Location *struct {
		Name    string   `json:"name" validate:"required"`
		Country string   `json:"country"`
		Lat     *float64 `json:"lat" validate:"required"`
		Lon     *float64 `json:"lon" validate:"required"`
	} `json:"location" validate:"required"`
	Current *struct {
		TempC      *float64 `json:"temp_c" validate:"required"`
		FeelsLikeC *float64 `json:"feelslike_c" validate:"required"`
		Humidity   *float64 `json:"humidity" validate:"required"`
		UV         *float64 `json:"uv" validate:"required"`
		Condition  *struct {
			Text string `json:"text" validate:"required"`
		} `json:"condition" validate:"required"`
		AirQuality *struct {
			PM25 *float64 `json:"pm2_5" validate:"required"`
		} `json:"air_quality" validate:"required"`
	} `json:"current" validate:"required"`
	Forecast *struct {
		ForecastDay []struct {
			Astro *struct {
				Sunrise   string `json:"sunrise" validate:"required"`
				Sunset    string `json:"sunset" validate:"required"`
				MoonPhase string `json:"moon_phase" validate:"required"`
			} `json:"astro" validate:"required"`
			Hour []struct {
				Time  string   `json:"time" validate:"required"`
				TempC *float64 `json:"temp_c" validate:"required"`
			} `json:"hour" validate:"dive"`
		} `json:"forecastday" validate:"required,min=1,dive"`
	} `json:"forecast" validate:"required"`
}

// Forecast calls /forecast.json and projects the response onto a snapshot.
func (p *WeatherAPIProvider) Forecast(ctx context.Context, req weather.ForecastRequest) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi api key is not configured")
	}

	days := req.Days
	if days <= 0 {
		days = 1
	}
	values := url.Values{}
	// WeatherAPI uses "q" for location; it accepts a place name or "lat,lon".
	values.Set("q", req.Query)
	values.Set("days", strconv.Itoa(days))
	values.Set("aqi", yesNo(req.AirQuality))
	if req.Lang != "" {
		values.Set("lang", req.Lang)
	}

	var payload weatherAPIForecast
	if err := p.get(ctx, "/forecast.json", values, &payload); err != nil {
		return weather.Snapshot{}, err
	}
	if err := validatePayload(p.name, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	day := payload.Forecast.ForecastDay[0]
	hourly := make([]weather.HourlyEntry, 0, len(day.Hour))
	for _, h := range day.Hour {
		hourly = append(hourly, weather.HourlyEntry{Time: h.Time, TemperatureC: *h.TempC})
	}

	return weather.Snapshot{
		Place: weather.Place{
			Name:    payload.Location.Name,
			Country: payload.Location.Country,
			Lat:     *payload.Location.Lat,
			Lon:     *payload.Location.Lon,
		},
		TemperatureC: *payload.Current.TempC,
		Condition:    payload.Current.Condition.Text,
		HumidityPct:  *payload.Current.Humidity,
		FeelsLikeC:   *payload.Current.FeelsLikeC,
		UVIndex:      *payload.Current.UV,
		PM25:         *payload.Current.AirQuality.PM25,
		Sunrise:      day.Astro.Sunrise,
		Sunset:       day.Astro.Sunset,
		MoonPhase:    day.Astro.MoonPhase,
		Hourly:       hourly,
	}, nil
}

// get performs a keyed GET against the API and decodes the JSON body into out.
func (p *WeatherAPIProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("key", p.apiKey)

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return describeWeatherAPIError(err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", weather.ErrMalformedResponse, p.name, err)
	}
	return nil
}

// describeWeatherAPIError surfaces the message of WeatherAPI's
// {"error":{"code":..,"message":..}} envelope when present.
func describeWeatherAPIError(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal([]byte(se.Body), &envelope) != nil || envelope.Error.Message == "" {
		return err
	}
	return fmt.Errorf("weatherapi error %d: %s: %w", envelope.Error.Code, envelope.Error.Message, err)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var (
	_ location.Searcher        = (*WeatherAPIProvider)(nil)
	_ weather.ForecastProvider = (*WeatherAPIProvider)(nil)
)
