package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/insight-dashboards/internal/common"
	"github.com/i474232898/insight-dashboards/internal/weather"
)

// geocoder keeps its API key in a package variable.
var googleMu sync.Mutex

// GoogleGeocoder resolves cities through the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{apiKey: apiKey}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, loc weather.Location) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, fmt.Errorf("google geocoder api key is not configured")
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}

	googleMu.Lock()
	geocoder.ApiKey = g.apiKey
	location, err := geocoder.Geocoding(geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	})
	googleMu.Unlock()

	if err != nil {
		if common.HasAny(err.Error(), "zero_results", "no results", "not found") {
			return weather.Coordinates{}, fmt.Errorf("%w: %s", weather.ErrLocationNotFound, loc.Query())
		}
		return weather.Coordinates{}, fmt.Errorf("%w: geocoding: %v", weather.ErrUpstream, err)
	}

	return weather.Coordinates{Lat: location.Latitude, Lon: location.Longitude}, nil
}
