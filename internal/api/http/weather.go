package httpapi

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/insight-dashboards/internal/store"
	"github.com/i474232898/insight-dashboards/internal/weather"
)

type weatherHandlers struct {
	service *weather.Service
}

func (h *weatherHandlers) location(c *fiber.Ctx) error {
	q := cityQuery{City: c.Query("city"), Country: c.Query("country")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc := q.toLocation()
	coords, err := h.service.Geocode(c.UserContext(), loc)
	if err != nil {
		return weatherError(err)
	}
	return c.JSON(fiber.Map{
		"location":    loc,
		"coordinates": coords,
	})
}

func (h *weatherHandlers) current(c *fiber.Ctx) error {
	q, err := parseLocationQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cur, err := h.service.Current(c.UserContext(), q.toLocation())
	if err != nil {
		return weatherError(err)
	}
	return c.JSON(cur)
}

func (h *weatherHandlers) forecast(c *fiber.Ctx) error {
	var q forecastQuery
	if err := q.bind(c, h.service.DefaultDays()); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fc, err := h.service.Forecast(c.UserContext(), q.Location.toLocation(), q.Days)
	if err != nil {
		return weatherError(err)
	}
	return c.JSON(fc)
}

func (h *weatherHandlers) tracked(c *fiber.Ctx) error {
	q := cityQuery{City: c.Query("city"), Country: c.Query("country")}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fc, err := h.service.Latest(q.toLocation())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no tracked forecast for requested city")
		}
		log.Printf("ERROR: tracked forecast lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch tracked forecast")
	}
	return c.JSON(fc)
}

func (h *weatherHandlers) history(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc := req.Location.toLocation()
	forecasts, err := h.service.History(loc, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no tracked forecasts for requested range")
		}
		log.Printf("ERROR: tracked history lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch tracked history")
	}

	return c.JSON(fiber.Map{
		"location":  loc,
		"from":      req.From,
		"to":        req.To,
		"forecasts": forecasts,
	})
}

// weatherError maps service errors onto HTTP statuses.
func weatherError(err error) error {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrUpstream):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, weather.ErrNoProvider):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: weather request failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// cityQuery identifies a tracked or geocoded city.
type cityQuery struct {
	City    string `validate:"required"`
	Country string
}

func (q cityQuery) toLocation() weather.Location {
	return weather.Location{City: q.City, Country: q.Country}
}

// locationQuery identifies a place by city or by coordinates.
type locationQuery struct {
	City    string   `validate:"required_without_all=Lat Lon"`
	Country string
	Lat     *float64 `validate:"required_with=Lon,omitempty,gte=-90,lte=90"`
	Lon     *float64 `validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
		Lat:     l.Lat,
		Lon:     l.Lon,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = c.Query("city")
	q.Country = c.Query("country")

	var err error
	if q.Lat, err = parseOptionalFloat(c.Query("lat"), "lat"); err != nil {
		return q, err
	}
	if q.Lon, err = parseOptionalFloat(c.Query("lon"), "lon"); err != nil {
		return q, err
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseOptionalFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Location locationQuery
	Days     int `validate:"min=1,max=5"`
}

func (f *forecastQuery) bind(c *fiber.Ctx, defaultDays int) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	f.Location = loc

	f.Days = defaultDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("days must be an integer")
		}
		f.Days = n
	}
	return nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location cityQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = cityQuery{City: c.Query("city"), Country: c.Query("country")}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
