package weather

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/location"
)

// Place is the location as reported back by the forecast service.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// HourlyEntry is one raw hourly forecast row, time as "YYYY-MM-DD HH:MM".
type HourlyEntry struct {
	Time         string
	TemperatureC float64
}

// Snapshot is the forecast response projected to the fields the dashboard needs.
type Snapshot struct {
	Place        Place
	TemperatureC float64
	Condition    string
	HumidityPct  float64
	FeelsLikeC   float64
	UVIndex      float64
	PM25         float64
	Sunrise      string
	Sunset       string
	MoonPhase    string
	Hourly       []HourlyEntry
}

// HourlyPoint is a single point of the hourly temperature chart.
type HourlyPoint struct {
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperatureC"`
}

// Recommendation is the band-driven clothing/items/activity advice.
type Recommendation struct {
	Clothing string `json:"clothing"`
	Items    string `json:"items"`
	Activity string `json:"activity"`
}

// Current holds the headline metrics shown at the top of the dashboard.
type Current struct {
	TemperatureC float64 `json:"temperatureC"`
	Condition    string  `json:"condition"`
	Icon         string  `json:"icon,omitempty"`
	HumidityPct  float64 `json:"humidityPercent"`
	FeelsLikeC   float64 `json:"feelsLikeC"`
	UVIndex      float64 `json:"uvIndex"`
	PM25         float64 `json:"pm25"`
	Sunrise      string  `json:"sunrise"`
	Sunset       string  `json:"sunset"`
	MoonPhase    string  `json:"moonPhase"`
}

// MapEmbed describes the embedded map frame for the resolved place.
type MapEmbed struct {
	URL    string `json:"url"`
	IFrame string `json:"iframe"`
}

// Dashboard is everything a client needs to render one pass.
type Dashboard struct {
	Query          string         `json:"query"`
	Place          Place          `json:"place"`
	Current        Current        `json:"current"`
	Hourly         []HourlyPoint  `json:"hourly"`
	Recommendation Recommendation `json:"recommendation"`
	Warnings       []string       `json:"warnings"`
	Advisories     []string       `json:"advisories"`
	Map            MapEmbed       `json:"map"`
	GeneratedAt    time.Time      `json:"generatedAt"` // always UTC
}

// Session is the stored resolution state of one dashboard client.
type Session struct {
	ID        string         `json:"id"`
	State     location.State `json:"state"`
	UpdatedAt time.Time      `json:"updatedAt"`

	// Seq is the ticket of the last interaction started on this session.
	Seq uint64 `json:"seq"`
}
