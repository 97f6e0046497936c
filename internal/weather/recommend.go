package weather

import (
	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	// HotThresholdC is the inclusive lower bound of the hottest band and of the heat warning.
	HotThresholdC = 30.0
	// WarmThresholdC is the inclusive lower bound of the warm band.
	WarmThresholdC = 20.0
	// MildThresholdC is the inclusive lower bound of the mild band.
	MildThresholdC = 10.0
	// HighUVIndex is the inclusive UV level that triggers the sunscreen advisory.
	HighUVIndex = 7.0
)

const (
	HeatWarningText   = "Too Hot!"
	UmbrellaAdvisory  = "Bring an umbrella."
	SunscreenAdvisory = "Use sunscreen."
)

const (
	IconSun       = "☀️"
	IconUmbrella  = "☔"
	IconSnowflake = "❄️"
)

var (
	hotBand  = Recommendation{Clothing: "T-shirt, Shorts", Items: "Sunscreen, Water", Activity: "Indoor workout or swimming"}
	warmBand = Recommendation{Clothing: "Light long sleeves", Items: "Sunglasses", Activity: "Running, Cycling"}
	mildBand = Recommendation{Clothing: "Jacket", Items: "Light outerwear", Activity: "Walking"}
	coldBand = Recommendation{Clothing: "Heavy coat", Items: "Gloves, Scarf", Activity: "Indoor yoga"}
)

// Recommend maps a temperature to one of four bands. Boundary values
// belong to the higher band.
func Recommend(tempC float64) Recommendation {
	switch {
	case tempC >= HotThresholdC:
		return hotBand
	case tempC >= WarmThresholdC:
		return warmBand
	case tempC >= MildThresholdC:
		return mildBand
	default:
		return coldBand
	}
}

// HeatWarning returns the heat warning text and true when the temperature
// reaches the hot threshold.
func HeatWarning(tempC float64) (string, bool) {
	if tempC >= HotThresholdC {
		return HeatWarningText, true
	}
	return "", false
}

// Warnings collects the dashboard warnings for a temperature.
func Warnings(tempC float64) []string {
	out := []string{}
	if w, ok := HeatWarning(tempC); ok {
		out = append(out, w)
	}
	return out
}

// Advisories returns the rain and UV reminders. They are independent of
// each other and of the temperature band.
func Advisories(condition string, uv float64) []string {
	out := []string{}
	if common.HasAny(condition, "rain") {
		out = append(out, UmbrellaAdvisory)
	}
	if uv >= HighUVIndex {
		out = append(out, SunscreenAdvisory)
	}
	return out
}

// ConditionIcon picks a coarse symbol for the condition text, or "" when
// no keyword matches.
func ConditionIcon(condition string) string {
	switch {
	case common.HasAny(condition, "rain", "drizzle", "shower"):
		return IconUmbrella
	case common.HasAny(condition, "snow", "sleet", "blizzard"):
		return IconSnowflake
	case common.HasAny(condition, "clear", "sunny"):
		return IconSun
	default:
		return ""
	}
}
