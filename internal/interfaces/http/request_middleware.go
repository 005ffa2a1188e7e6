package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Analytics-api/internal/infrastructure/upstream"
)

// LocalRequestID key del ID de petición en c.Locals.
const LocalRequestID = "request_id"

// RequestID asigna un X-Request-ID (respeta el que venga en la petición), lo devuelve en la
// respuesta y lo deja en el contexto de usuario para propagarlo a los servicios upstream.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(upstream.HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(upstream.HeaderRequestID, id)
		c.SetUserContext(upstream.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// GetRequestID devuelve el ID asignado por RequestID o "".
func GetRequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}

// RequestLogger registra una línea por petición con zerolog.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := responseStatus(c, err)

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("petición HTTP")
		return err
	}
}

// httpObserver lo implementa *metrics.Collector.
type httpObserver interface {
	RequestStarted()
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics mide cada petición etiquetando por ruta registrada (no por URL) para acotar la cardinalidad.
func Metrics(obs httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		obs.RequestStarted()
		err := c.Next()
		obs.ObserveRequest(c.Method(), c.Route().Path, responseStatus(c, err), time.Since(start))
		return err
	}
}

// responseStatus estado final: el del *fiber.Error si el handler devolvió uno.
func responseStatus(c *fiber.Ctx, err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if err != nil {
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
