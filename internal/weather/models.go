package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location represents a place the dashboards look weather up for.
// Either City or both Lat/Lon must be provided.
type Location struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// HasCoordinates reports whether the location is already resolved.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// WithCoordinates returns a copy of l pinned to c.
func (l Location) WithCoordinates(c Coordinates) Location {
	lat, lon := c.Lat, c.Lon
	l.Lat = &lat
	l.Lon = &lon
	return l
}

// Query renders the free-text form used by city lookups ("city" or "city,country").
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Observation is one timestamped weather reading, typically a 3-hour forecast slot.
// PrecipMM is nil when the upstream payload carries no precipitation field.
type Observation struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	PrecipMM     *float64  `json:"precipMm,omitempty"`
}

// DailySummary is one calendar date's aggregated statistics.
type DailySummary struct {
	Date           string  `json:"date"` // 2006-01-02, UTC
	AvgTemperature float64 `json:"avgTemperatureC"`
	AvgHumidity    float64 `json:"avgHumidityPercent"`
	TotalPrecipMM  float64 `json:"totalPrecipMm"`
}

// CurrentConditions is the normalized current-weather view for a location.
type CurrentConditions struct {
	Location     Location  `json:"location"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeed"`
	PressureHpa  float64   `json:"pressureHpa"`
	VisibilityKm float64   `json:"visibilityKm"`
	Description  string    `json:"description"`
	Condition    Condition `json:"condition"`
}

// DailyForecast is a multi-day forecast collapsed to one summary per date.
// Days are ordered by Date ascending.
type DailyForecast struct {
	Location  Location       `json:"location"`
	Provider  string         `json:"provider"`
	FetchedAt time.Time      `json:"fetchedAt"`
	Days      []DailySummary `json:"days"`
}
