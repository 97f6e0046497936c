package weather

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHourlySeriesStripsDateAndKeepsOrder(t *testing.T) {
	temps := []float64{5, 4, 4, 3, 3, 2, 2, 3, 5, 7, 9, 10, 11, 12, 12, 11, 10, 8, 7, 6, 5, 4, 4, 3}
	entries := make([]HourlyEntry, 0, 24)
	for h, temp := range temps {
		entries = append(entries, HourlyEntry{Time: fmt.Sprintf("2024-01-01 %02d:00", h), TemperatureC: temp})
	}

	got, err := HourlySeries(entries)
	require.NoError(t, err)
	require.Len(t, got, 24)
	require.Equal(t, HourlyPoint{Time: "00:00", TemperatureC: 5}, got[0])
	require.Equal(t, HourlyPoint{Time: "23:00", TemperatureC: 3}, got[23])
	for i := range got {
		require.Equal(t, temps[i], got[i].TemperatureC)
	}
}

func TestHourlySeriesNoGapFilling(t *testing.T) {
	got, err := HourlySeries([]HourlyEntry{
		{Time: "2024-01-01 03:00", TemperatureC: 1},
		{Time: "2024-01-01 01:00", TemperatureC: 2},
	})
	require.NoError(t, err)
	require.Equal(t, []HourlyPoint{{Time: "03:00", TemperatureC: 1}, {Time: "01:00", TemperatureC: 2}}, got)
}

func TestHourlySeriesMalformedTime(t *testing.T) {
	_, err := HourlySeries([]HourlyEntry{{Time: "0300", TemperatureC: 1}})
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBuildMapEmbed(t *testing.T) {
	m := BuildMapEmbed("", "New York")
	require.Equal(t, "https://map.naver.com/v5/search/New%20York", m.URL)
	require.Contains(t, m.IFrame, `src="https://map.naver.com/v5/search/New%20York"`)
	require.Contains(t, m.IFrame, `height="500"`)
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600))
	snap := Snapshot{
		Place:        Place{Name: "Seoul", Country: "South Korea", Lat: 37.57, Lon: 127},
		TemperatureC: 30,
		Condition:    "Light rain",
		HumidityPct:  80,
		FeelsLikeC:   35,
		UVIndex:      7,
		PM25:         15.5,
		Sunrise:      "05:11 AM",
		Sunset:       "07:56 PM",
		MoonPhase:    "Full Moon",
		Hourly:       []HourlyEntry{{Time: "2024-07-01 00:00", TemperatureC: 25}},
	}

	d, err := BuildDashboard("37.5,127.0", snap, "", now)
	require.NoError(t, err)
	require.Equal(t, "37.5,127.0", d.Query)
	require.Equal(t, IconUmbrella, d.Current.Icon)
	require.Equal(t, 15.5, d.Current.PM25)
	require.Equal(t, "Full Moon", d.Current.MoonPhase)
	require.Equal(t, hotBand, d.Recommendation)
	require.Equal(t, []string{HeatWarningText}, d.Warnings)
	require.Equal(t, []string{UmbrellaAdvisory, SunscreenAdvisory}, d.Advisories)
	require.Equal(t, []HourlyPoint{{Time: "00:00", TemperatureC: 25}}, d.Hourly)
	require.Equal(t, "https://map.naver.com/v5/search/Seoul", d.Map.URL)
	require.Equal(t, time.UTC, d.GeneratedAt.Location())
}
