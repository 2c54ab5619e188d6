package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/insight-dashboards/internal/config"
	"github.com/i474232898/insight-dashboards/internal/store"
	"github.com/i474232898/insight-dashboards/internal/weather"
	"github.com/i474232898/insight-dashboards/internal/weather/providers"
)

type weatherFlags struct {
	country  string
	provider string
	timeout  time.Duration
}

func (f *weatherFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.country, "country", "", "country code to disambiguate the city")
	cmd.Flags().StringVar(&f.provider, "provider", "", "openweather or openmeteo (default from WEATHER_PROVIDER)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "overall request timeout")
}

// service builds a weather service from the environment, without a persistent store.
func (f *weatherFlags) service() (*weather.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.provider != "" {
		cfg.WeatherProvider = f.provider
	}

	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.BackoffConfig{MaxRetries: cfg.ProviderMaxRetries},
	}

	provider, geocoder, err := providers.Select(providers.Selection{
		Provider:          cfg.WeatherProvider,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		GeocoderAPIKey:    cfg.GeocoderAPIKey,
		ForecastDays:      cfg.ForecastDays,
		HTTP:              httpCfg,
	})
	if err != nil {
		return nil, err
	}

	return weather.NewService(store.NewMemoryStore(1, 0), provider, geocoder, cfg.ForecastDays), nil
}

func newForecastCmd() *cobra.Command {
	var (
		flags weatherFlags
		days  int
	)
	cmd := &cobra.Command{
		Use:   "forecast <city>",
		Short: "Show the daily forecast summaries for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 || days > 5 {
				return fmt.Errorf("--days must be between 1 and 5")
			}
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			fc, err := svc.Forecast(ctx, weather.Location{City: args[0], Country: flags.country}, days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), fc)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&days, "days", 0, "number of days (1-5, default from FORECAST_DAYS)")
	return cmd
}

func newCurrentCmd() *cobra.Command {
	var flags weatherFlags
	cmd := &cobra.Command{
		Use:   "current <city>",
		Short: "Show the current conditions for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			cur, err := svc.Current(ctx, weather.Location{City: args[0], Country: flags.country})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cur)
		},
	}
	flags.register(cmd)
	return cmd
}
