package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// serviceError maps the domain error taxonomy onto HTTP status codes:
// NotFound -> 404, DuplicateKey -> 409, InvalidArgument -> 400, anything
// else -> 500.
func serviceError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateKey):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationError renders validator.ValidationErrors as a field -> reason map.
func validationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// badBody is the uniform response for an unparseable request body.
func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: %w", c.Params("id"), models.ErrInvalidArgument)
	}
	return uint(id), nil
}
