package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// RateLimit devuelve un middleware Fiber que limita peticiones por IP con ulule/limiter.
// Publica X-RateLimit-Limit, X-RateLimit-Remaining y X-RateLimit-Reset.
//
// Comportamiento:
//   - 429 Too Many Requests → límite alcanzado en la ventana actual.
//   - Si el store falla (p. ej. Redis caído) se registra y se deja pasar la petición.
func RateLimit(l *limiter.Limiter, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		lc, err := l.Get(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limiter no disponible")
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))

		if lc.Reached {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:        "RATE_LIMITED",
				Message:     "demasiadas peticiones",
				Explanation: "Too many requests. Please wait a moment and try again.",
			})
		}
		return c.Next()
	}
}
