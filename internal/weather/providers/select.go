package providers

import (
	"errors"
	"fmt"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

// ErrMissingKey is returned when the chosen provider needs an API key that is not set.
var ErrMissingKey = errors.New("api key is not configured")

// Selection names the forecast provider and the keys available to build it.
type Selection struct {
	Provider          string // "openweather" or "openmeteo"
	OpenWeatherAPIKey string
	GeocoderAPIKey    string
	ForecastDays      int
	HTTP              HTTPClientConfig
}

// Select builds the forecast provider and the city geocoder. The geocoder is
// Google when GeocoderAPIKey is set, otherwise OpenWeather when its key is set,
// otherwise nil. A provider error still returns the geocoder.
func Select(sel Selection) (weather.Provider, weather.Geocoder, error) {
	var (
		provider weather.Provider
		geocoder weather.Geocoder
		err      error
	)

	var ow *OpenWeatherProvider
	if sel.OpenWeatherAPIKey != "" {
		ow = NewOpenWeatherProvider(sel.HTTP, sel.OpenWeatherAPIKey)
	}

	switch sel.Provider {
	case "openmeteo":
		provider = NewOpenMeteoProvider(sel.HTTP, sel.ForecastDays)
	case "openweather", "":
		if ow != nil {
			provider = ow
		} else {
			err = fmt.Errorf("openweather: %w (OPENWEATHER_API_KEY)", ErrMissingKey)
		}
	default:
		err = fmt.Errorf("unknown weather provider %q", sel.Provider)
	}

	switch {
	case sel.GeocoderAPIKey != "":
		geocoder = NewGoogleGeocoder(sel.GeocoderAPIKey)
	case ow != nil:
		geocoder = ow
	}

	return provider, geocoder, err
}
