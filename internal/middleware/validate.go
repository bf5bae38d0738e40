package middleware

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const bodyKey = "validatedBody"

// Validate decodes the request body (JSON, urlencoded or multipart form),
// runs schema over it and stores the sanitized body for the handler. Every
// rule runs; on failure the full error list is returned and the handler is
// never reached.
func Validate(schema *validation.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeBody(c)
		if err != nil {
			ValidationFailures.WithLabelValues(schema.Name).Inc()
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
		}

		sanitized, errs := schema.Run(body)
		if len(errs) > 0 {
			ValidationFailures.WithLabelValues(schema.Name).Inc()
			return models.RespondWithError(c, fiber.StatusBadRequest, errs)
		}

		c.Locals(bodyKey, sanitized)
		return c.Next()
	}
}

// BodyFrom returns the body stored by Validate, or an empty body.
func BodyFrom(c *fiber.Ctx) validation.Body {
	if b, ok := c.Locals(bodyKey).(validation.Body); ok {
		return b
	}
	return validation.Body{}
}

func decodeBody(c *fiber.Ctx) (validation.Body, error) {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return validation.FromValues(form.Value), nil
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		values := map[string][]string{}
		for k, v := range c.Request().PostArgs().All() {
			key := string(k)
			values[key] = append(values[key], string(v))
		}
		return validation.FromValues(values), nil
	default:
		return validation.DecodeJSON(c.Body())
	}
}
