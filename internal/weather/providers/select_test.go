package providers

import (
	"errors"
	"testing"
)

func TestSelect(t *testing.T) {
	cases := []struct {
		name         string
		sel          Selection
		wantProvider string
		wantGeocoder string
		wantErr      bool
	}{
		{"openweather with key", Selection{Provider: "openweather", OpenWeatherAPIKey: "k"}, "openweathermap", "openweather", false},
		{"openweather without key", Selection{Provider: "openweather"}, "", "", true},
		{"openmeteo keyless", Selection{Provider: "openmeteo"}, "openmeteo", "", false},
		{"openmeteo with google", Selection{Provider: "openmeteo", GeocoderAPIKey: "g"}, "openmeteo", "google", false},
		{"google wins over openweather", Selection{OpenWeatherAPIKey: "k", GeocoderAPIKey: "g"}, "openweathermap", "google", false},
		{"unknown provider", Selection{Provider: "darksky", OpenWeatherAPIKey: "k"}, "", "openweather", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, g, err := Select(tc.sel)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error %v", err)
			}

			gotProvider := ""
			if p != nil {
				gotProvider = p.Name()
			}
			if gotProvider != tc.wantProvider {
				t.Errorf("expected provider %q, got %q", tc.wantProvider, gotProvider)
			}

			gotGeocoder := ""
			switch g.(type) {
			case nil:
			case *GoogleGeocoder:
				gotGeocoder = "google"
			case *OpenWeatherProvider:
				gotGeocoder = "openweather"
			}
			if gotGeocoder != tc.wantGeocoder {
				t.Errorf("expected geocoder %q, got %q", tc.wantGeocoder, gotGeocoder)
			}
		})
	}

	if _, _, err := Select(Selection{Provider: "openweather"}); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}
