package weather

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
)

// DefaultMapBaseURL is the map search page the place name is appended to.
const DefaultMapBaseURL = "https://map.naver.com/v5/search/"

// HourlySeries strips the date from each hourly entry and keeps the
// provider's order. Missing hours are not filled in.
func HourlySeries(entries []HourlyEntry) ([]HourlyPoint, error) {
	points := make([]HourlyPoint, 0, len(entries))
	for i, e := range entries {
		_, clock, ok := strings.Cut(strings.TrimSpace(e.Time), " ")
		if !ok || clock == "" {
			return nil, fmt.Errorf("%w: hourly entry %d has time %q", ErrMalformedResponse, i, e.Time)
		}
		points = append(points, HourlyPoint{
			Time:         clock,
			TemperatureC: e.TemperatureC,
		})
	}
	return points, nil
}

// BuildMapEmbed interpolates the place name into the map URL and wraps it
// in an iframe snippet.
func BuildMapEmbed(baseURL, name string) MapEmbed {
	if baseURL == "" {
		baseURL = DefaultMapBaseURL
	}
	u := baseURL + url.PathEscape(name)
	return MapEmbed{
		URL:    u,
		IFrame: fmt.Sprintf(`<iframe src="%s" width="100%%" height="500" style="border:none;"></iframe>`, html.EscapeString(u)),
	}
}

// BuildDashboard derives every display value from a snapshot.
func BuildDashboard(query string, snap Snapshot, mapBaseURL string, now time.Time) (Dashboard, error) {
	hourly, err := HourlySeries(snap.Hourly)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Query: query,
		Place: snap.Place,
		Current: Current{
			TemperatureC: snap.TemperatureC,
			Condition:    snap.Condition,
			Icon:         ConditionIcon(snap.Condition),
			HumidityPct:  snap.HumidityPct,
			FeelsLikeC:   snap.FeelsLikeC,
			UVIndex:      snap.UVIndex,
			PM25:         snap.PM25,
			Sunrise:      snap.Sunrise,
			Sunset:       snap.Sunset,
			MoonPhase:    snap.MoonPhase,
		},
		Hourly:         hourly,
		Recommendation: Recommend(snap.TemperatureC),
		Warnings:       Warnings(snap.TemperatureC),
		Advisories:     Advisories(snap.Condition, snap.UVIndex),
		Map:            BuildMapEmbed(mapBaseURL, snap.Place.Name),
		GeneratedAt:    now.UTC(),
	}, nil
}
