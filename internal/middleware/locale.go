package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Supported response locales.
const (
	LocaleEnglish     = "en"
	LocaleAzerbaijani = "az"

	// LocaleKey is the fiber.Ctx locals key the handlers read.
	LocaleKey = "locale"
)

// Locale resolves the response language from the Accept-Language header.
// Azerbaijani when the header leads with "az", English otherwise.
func Locale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := LocaleEnglish
		if strings.HasPrefix(strings.ToLower(c.Get("Accept-Language")), "az") {
			locale = LocaleAzerbaijani
		}
		c.Locals(LocaleKey, locale)
		return c.Next()
	}
}

// LocaleFrom reads the resolved locale off the request context.
func LocaleFrom(c *fiber.Ctx) string {
	if locale, ok := c.Locals(LocaleKey).(string); ok {
		return locale
	}
	return LocaleEnglish
}
