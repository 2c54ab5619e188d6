package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/i474232898/insight-dashboards/internal/common"
	"github.com/i474232898/insight-dashboards/internal/weather"
)

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key but only accepts coordinates.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	days    int
	http    *upstream
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, days int) *OpenMeteoProvider {
	if days <= 0 {
		days = 5
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		days:    days,
		http:    newUpstream("openmeteo", cfg),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) get(ctx context.Context, loc weather.Location, values url.Values, out interface{}) error {
	if !loc.HasCoordinates() {
		return fmt.Errorf("openmeteo requires latitude and longitude")
	}

	q := url.Values{}
	for k, v := range values {
		q[k] = v
	}
	q.Set("latitude", fmt.Sprintf("%f", *loc.Lat))
	q.Set("longitude", fmt.Sprintf("%f", *loc.Lon))
	q.Set("timezone", "UTC")
	q.Set("wind_speed_unit", "ms")

	return p.http.getJSON(ctx, fmt.Sprintf("%s?%s", p.baseURL, q.Encode()), out)
}

func (p *OpenMeteoProvider) Current(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("current", "temperature_2m,relative_humidity_2m,pressure_msl,wind_speed_10m,visibility,weather_code")

	var payload struct {
		Current struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			Pressure    float64 `json:"pressure_msl"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			Visibility  float64 `json:"visibility"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}

	if err := p.get(ctx, loc, values, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}

	ts, err := time.Parse(openMeteoTimeLayout, payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	cond := mapOpenMeteoCondition(payload.Current.WeatherCode)

	return weather.CurrentConditions{
		Location:     loc,
		Timestamp:    ts,
		TemperatureC: payload.Current.Temperature,
		HumidityPct:  payload.Current.Humidity,
		WindSpeedMS:  payload.Current.WindSpeed,
		PressureHpa:  payload.Current.Pressure,
		VisibilityKm: payload.Current.Visibility / 1000,
		Description:  common.Capitalize(string(cond)),
		Condition:    cond,
	}, nil
}

// Observations returns hourly forecast slots for the configured number of days.
func (p *OpenMeteoProvider) Observations(ctx context.Context, loc weather.Location) ([]weather.Observation, error) {
	values := url.Values{}
	values.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation")
	values.Set("forecast_days", fmt.Sprintf("%d", p.days))

	var payload struct {
		Hourly struct {
			Time          []string   `json:"time"`
			Temperature   []*float64 `json:"temperature_2m"`
			Humidity      []*float64 `json:"relative_humidity_2m"`
			Precipitation []*float64 `json:"precipitation"`
		} `json:"hourly"`
	}

	if err := p.get(ctx, loc, values, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	obs := make([]weather.Observation, 0, len(h.Time))
	for i, raw := range h.Time {
		if i >= len(h.Temperature) || i >= len(h.Humidity) {
			break
		}
		// Slots past the model horizon come back as null.
		if h.Temperature[i] == nil || h.Humidity[i] == nil {
			continue
		}

		ts, err := time.Parse(openMeteoTimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hourly time %q", weather.ErrUpstream, raw)
		}

		o := weather.Observation{
			Timestamp:    ts,
			TemperatureC: *h.Temperature[i],
			HumidityPct:  *h.Humidity[i],
		}
		if i < len(h.Precipitation) && h.Precipitation[i] != nil {
			v := *h.Precipitation[i]
			o.PrecipMM = &v
		}
		obs = append(obs, o)
	}

	return obs, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on WMO weather interpretation codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
