package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/i474232898/insight-dashboards/internal/common"
	"github.com/i474232898/insight-dashboards/internal/weather"
)

const openWeatherTimeLayout = "2006-01-02 15:04:05"

// OpenWeatherProvider implements weather.Provider and weather.Geocoder for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	http    *upstream
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		http:    newUpstream("openweather", cfg),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, out interface{}) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	q := url.Values{}
	for k, v := range values {
		q[k] = v
	}
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")

	return p.http.getJSON(ctx, fmt.Sprintf("%s/%s?%s", p.baseURL, path, q.Encode()), out)
}

func coordValues(loc weather.Location) (url.Values, error) {
	if !loc.HasCoordinates() {
		return nil, fmt.Errorf("openweather requires latitude and longitude")
	}
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
	values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
	return values, nil
}

// Geocode resolves a city through the current-weather endpoint, which echoes the
// coordinates of the matched place.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, loc weather.Location) (weather.Coordinates, error) {
	values := url.Values{}
	values.Set("q", loc.Query())

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	}

	if err := p.get(ctx, "weather", values, &payload); err != nil {
		if errors.Is(err, errNotFound) {
			return weather.Coordinates{}, fmt.Errorf("%w: %s", weather.ErrLocationNotFound, loc.Query())
		}
		return weather.Coordinates{}, err
	}

	return weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon}, nil
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	values, err := coordValues(loc)
	if err != nil {
		return weather.CurrentConditions{}, err
	}

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Visibility float64 `json:"visibility"`
		Weather    []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := p.get(ctx, "weather", values, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	var main, description string
	if len(payload.Weather) > 0 {
		main = payload.Weather[0].Main
		description = payload.Weather[0].Description
	}

	return weather.CurrentConditions{
		Location:     loc,
		Timestamp:    ts,
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		PressureHpa:  payload.Main.Pressure,
		VisibilityKm: payload.Visibility / 1000,
		Description:  common.Capitalize(description),
		Condition:    mapOpenWeatherCondition(main, description),
	}, nil
}

// Observations returns the 5-day / 3-hour forecast slots.
func (p *OpenWeatherProvider) Observations(ctx context.Context, loc weather.Location) ([]weather.Observation, error) {
	values, err := coordValues(loc)
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []struct {
			Dt    int64  `json:"dt"`
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Rain *struct {
				ThreeH *float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := p.get(ctx, "forecast", values, &payload); err != nil {
		return nil, err
	}

	obs := make([]weather.Observation, 0, len(payload.List))
	for _, item := range payload.List {
		ts, err := time.Parse(openWeatherTimeLayout, item.DtTxt)
		if err != nil {
			ts = time.Unix(item.Dt, 0).UTC()
		}

		o := weather.Observation{
			Timestamp:    ts,
			TemperatureC: item.Main.Temp,
			HumidityPct:  item.Main.Humidity,
		}
		if item.Rain != nil && item.Rain.ThreeH != nil {
			v := *item.Rain.ThreeH
			o.PrecipMM = &v
		}
		obs = append(obs, o)
	}

	return obs, nil
}

func mapOpenWeatherCondition(main, description string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	}

	// Fall back to the free-text description for less common groups.
	switch {
	case common.HasAny(description, "thunder", "storm", "squall", "tornado"):
		return weather.ConditionStorm
	case common.HasAny(description, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(description, "snow", "sleet"):
		return weather.ConditionSnow
	case common.HasAny(description, "mist", "fog", "haze", "smoke", "dust", "sand"):
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
