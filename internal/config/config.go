package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when WEATHER_API_KEY is not set.
var ErrMissingAPIKey = errors.New("WEATHER_API_KEY is required")

// Search providers selectable through SEARCH_PROVIDER.
const (
	SearchWeatherAPI  = "weatherapi"
	SearchOpenMeteo   = "openmeteo"
	SearchOpenWeather = "openweather"
	SearchGoogle      = "google"
)

// Session store backends selectable through SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreValkey = "valkey"
)

var defaultPopularCities = []string{"Seoul", "Busan", "Tokyo", "New York", "London", "Paris"}

type AppConfig struct {
	WeatherAPIKey     string
	OpenWeatherAPIKey string
	GoogleAPIKey      string

	// SearchProvider picks the geocode/search backend.
	SearchProvider string
	// Lang is passed to the forecast call for localized condition text.
	Lang string

	HTTPTimeout time.Duration

	// Session retention.
	SessionStore         string
	SessionTTL           time.Duration // idle time before a session expires
	SessionMax           int           // max live sessions in memory (0 = unlimited)
	SessionPruneInterval time.Duration
	ValkeyAddr           string

	// Resolution variants.
	AutoSelectTop bool
	SelectByName  bool

	PopularCities []string
	MapBaseURL    string

	Port string
}

// fileConfig is the optional YAML file named by DASHBOARD_CONFIG.
type fileConfig struct {
	PopularCities []string `yaml:"popularCities"`
	MapBaseURL    string   `yaml:"mapBaseUrl"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	if cfg.WeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.Lang = os.Getenv("WEATHER_LANG")

	cfg.SearchProvider = strings.ToLower(getenvDefault("SEARCH_PROVIDER", SearchWeatherAPI))
	switch cfg.SearchProvider {
	case SearchWeatherAPI, SearchOpenMeteo:
	case SearchOpenWeather:
		if cfg.OpenWeatherAPIKey == "" {
			return nil, fmt.Errorf("SEARCH_PROVIDER=%s requires OPENWEATHER_API_KEY", cfg.SearchProvider)
		}
	case SearchGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("SEARCH_PROVIDER=%s requires GOOGLE_GEOCODER_API_KEY", cfg.SearchProvider)
		}
	default:
		return nil, fmt.Errorf("invalid SEARCH_PROVIDER %q", cfg.SearchProvider)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionPruneInterval, err = getenvDuration("SESSION_PRUNE_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	cfg.SessionMax = getenvInt("SESSION_MAX", 10000)

	cfg.SessionStore = strings.ToLower(getenvDefault("SESSION_STORE", StoreMemory))
	cfg.ValkeyAddr = os.Getenv("VALKEY_ADDR")
	switch cfg.SessionStore {
	case StoreMemory:
	case StoreValkey:
		if cfg.ValkeyAddr == "" {
			return nil, fmt.Errorf("SESSION_STORE=valkey requires VALKEY_ADDR")
		}
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q", cfg.SessionStore)
	}

	cfg.AutoSelectTop = getenvBool("AUTO_SELECT_TOP", false)
	cfg.SelectByName = getenvBool("SELECT_BY_NAME", false)

	cfg.PopularCities = defaultPopularCities
	if v := os.Getenv("POPULAR_CITIES"); v != "" {
		cfg.PopularCities = splitList(v)
	}
	cfg.MapBaseURL = getenvDefault("MAP_BASE_URL", "https://map.naver.com/v5/search/")

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// applyFile overlays values from the YAML config file.
func (c *AppConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read DASHBOARD_CONFIG: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse DASHBOARD_CONFIG: %w", err)
	}
	if len(fc.PopularCities) > 0 {
		c.PopularCities = splitList(strings.Join(fc.PopularCities, ","))
	}
	if fc.MapBaseURL != "" {
		c.MapBaseURL = fc.MapBaseURL
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
