package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecommendBands(t *testing.T) {
	tests := []struct {
		temp float64
		want Recommendation
	}{
		{45, hotBand},
		{30, hotBand},
		{29.9, warmBand},
		{20, warmBand},
		{19.99, mildBand},
		{10, mildBand},
		{9.9, coldBand},
		{0, coldBand},
		{-25, coldBand},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Recommend(tc.temp), "temp %v", tc.temp)
	}
}

func TestRecommendBandText(t *testing.T) {
	require.Equal(t, Recommendation{Clothing: "T-shirt, Shorts", Items: "Sunscreen, Water", Activity: "Indoor workout or swimming"}, Recommend(30))
	require.Equal(t, Recommendation{Clothing: "Heavy coat", Items: "Gloves, Scarf", Activity: "Indoor yoga"}, Recommend(-1))
}

func TestHeatWarning(t *testing.T) {
	w, ok := HeatWarning(30)
	require.True(t, ok)
	require.Equal(t, "Too Hot!", w)

	_, ok = HeatWarning(29.99)
	require.False(t, ok)
}

func TestWarnings(t *testing.T) {
	require.Equal(t, []string{HeatWarningText}, Warnings(30))
	require.Equal(t, []string{HeatWarningText}, Warnings(38.5))
	require.Empty(t, Warnings(29.99))
	require.Empty(t, Warnings(-5))
}

func TestAdvisories(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		uv        float64
		want      []string
	}{
		{"none", "Sunny", 6.9, []string{}},
		{"rain only", "Moderate RAIN", 2, []string{UmbrellaAdvisory}},
		{"uv only", "Clear", 7, []string{SunscreenAdvisory}},
		{"both", "Light rain shower", 9, []string{UmbrellaAdvisory, SunscreenAdvisory}},
		{"drizzle is not rain", "Light drizzle", 1, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Advisories(tc.condition, tc.uv))
		})
	}
}

func TestConditionIcon(t *testing.T) {
	require.Equal(t, IconSun, ConditionIcon("Sunny"))
	require.Equal(t, IconSun, ConditionIcon("Clear"))
	require.Equal(t, IconUmbrella, ConditionIcon("Patchy rain nearby"))
	require.Equal(t, IconSnowflake, ConditionIcon("Heavy snow"))
	require.Equal(t, "", ConditionIcon("Overcast"))
	require.Equal(t, "", ConditionIcon(""))
}
