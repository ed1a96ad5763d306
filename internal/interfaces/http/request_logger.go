package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// httpObserver recibe la duración de cada request. Lo implementa *metrics.Metrics.
type httpObserver interface {
	ObserveHTTP(method, route, status string, seconds float64)
}

// RequestLogger registra cada request con zerolog y, si observer no es nil, alimenta las métricas HTTP.
// Debe ir después de requestid para incluir el X-Request-ID.
func RequestLogger(logger zerolog.Logger, observer httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// El ErrorHandler de la app aún no escribió la respuesta; se usa su status.
			if fe, ok := chainErr.(*fiber.Error); ok {
				c.Status(fe.Code)
			} else {
				c.Status(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		status := c.Response().StatusCode()

		// Ruta registrada (":id") para no disparar la cardinalidad de métricas.
		route := c.Route().Path
		if observer != nil {
			observer.ObserveHTTP(c.Method(), route, strconv.Itoa(status), latency.Seconds())
		}

		evt := logger.Info()
		if status >= fiber.StatusInternalServerError {
			evt = logger.Error().Err(chainErr)
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("company_id", GetCompanyID(c)).
			Msg("request")
		return chainErr
	}
}
