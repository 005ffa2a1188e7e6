package http

import (
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Analytics-api/internal/application/dto"
	"github.com/jhoicas/Analytics-api/internal/infrastructure/upstream"
	"github.com/jhoicas/Analytics-api/pkg/jwt"
)

// MetricsExporter métricas HTTP más el handler de exposición. Lo implementa *metrics.Collector.
type MetricsExporter interface {
	httpObserver
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Analytics      AnalyticsService
	Metrics        MetricsExporter // nil = sin /metrics ni métricas HTTP
	Log            zerolog.Logger
	AppName        string
	ServiceName    string // valor de "service" en el health check
	AllowedOrigins string // lista separada por comas
	JWTSecret      string
	AuthRequired   bool
	WriteTimeout   time.Duration // debe superar el timeout del reporte
}

// NewApp crea la aplicación Fiber con los middlewares globales y registra las rutas.
func NewApp(deps RouterDeps) *fiber.App {
	writeTimeout := deps.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 90 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler(deps.Log),
	})

	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(deps.Log))
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  deps.AllowedOrigins,
		AllowMethods:  "GET,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + upstream.HeaderRequestID,
		ExposeHeaders: upstream.HeaderRequestID + ", " + HeaderReportDegraded,
	}))

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewAnalyticsHandler(deps.Analytics, deps.ServiceName, deps.Log)

	// Salud y métricas (público)
	app.Get("/health", h.Health)
	app.Get("/api/analytics/health", h.Health)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Analítica: protegida con Bearer Token de rol admin si AUTH_REQUIRED
	var analytics fiber.Router
	if deps.AuthRequired {
		analytics = app.Group("/api/analytics", AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleAdmin))
	} else {
		analytics = app.Group("/api/analytics")
	}
	analytics.Get("/sales-report", h.GetSalesReport)
	analytics.Get("/dashboard-stats", h.GetDashboardStats)
	analytics.Get("/platform-stats", h.GetPlatformStats)
}

// errorHandler convierte los errores no manejados (404, panics recuperados) en ErrorResponse.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		body := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			body = dto.ErrorResponse{Code: errorCode(fe.Code), Message: fe.Message}
		} else {
			log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error no manejado")
		}
		return c.Status(code).JSON(body)
	}
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestTimeout:
		return "TIMEOUT"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "BAD_REQUEST"
	}
}
