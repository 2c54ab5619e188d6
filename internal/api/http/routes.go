package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/insight-dashboards/internal/sentiment"
	"github.com/i474232898/insight-dashboards/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the dashboard handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, analyzer *sentiment.Analyzer) {
	v1 := app.Group("/api/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "insight-dashboards",
		})
	})

	w := &weatherHandlers{service: service}
	v1.Get("/weather/location", w.location)
	v1.Get("/weather/current", w.current)
	v1.Get("/weather/forecast", w.forecast)
	v1.Get("/weather/tracked", w.tracked)
	v1.Get("/weather/tracked/history", w.history)

	v1.Post("/table/inspect", inspectTable)
	v1.Post("/table/chart", chartTable)
	v1.Post("/table/regression", regressTable)
	v1.Post("/table/export", exportTable)

	s := &sentimentHandlers{analyzer: analyzer}
	v1.Post("/sentiment", s.analyze)
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
