package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/insight-dashboards/internal/sentiment"
)

type sentimentHandlers struct {
	analyzer *sentiment.Analyzer
}

type sentimentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *sentimentHandlers) analyze(c *fiber.Ctx) error {
	var req sentimentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := h.analyzer.Analyze(req.Text)
	if err != nil {
		if errors.Is(err, sentiment.ErrEmptyText) {
			return fiber.NewError(fiber.StatusBadRequest, "Please enter some text to analyze.")
		}
		return err
	}
	return c.JSON(res)
}
