package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Analytics-api/internal/application/analytics"
	"github.com/jhoicas/Analytics-api/internal/application/dto"
)

// HeaderReportDegraded se envía con valor "true" cuando el reporte no cubre todos los pedidos.
const HeaderReportDegraded = "X-Report-Degraded"

// dashboardErrorMessage cuerpo de error del dashboard; el frontend lo compara literalmente.
const dashboardErrorMessage = "Unable to fetch statistics"

// AnalyticsService contrato que el handler necesita del caso de uso.
// Lo implementa *appanalytics.SalesReportUseCase.
type AnalyticsService interface {
	GenerateSalesReport(ctx context.Context) (*appanalytics.SalesReport, error)
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
	GetPlatformStats(ctx context.Context) dto.PlatformStatsDTO
}

// AnalyticsHandler maneja los endpoints de /api/analytics.
// Todos responden 200: los fallos se expresan en el cuerpo, nunca con códigos 5xx.
type AnalyticsHandler struct {
	svc     AnalyticsService
	service string
	log     zerolog.Logger
}

// NewAnalyticsHandler construye el handler. service es el nombre que informa el health check.
func NewAnalyticsHandler(svc AnalyticsService, service string, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, service: service, log: log}
}

// GetSalesReport devuelve el reporte de ventas completo.
// GET /api/analytics/sales-report
//
// Si el reporte no pudo calcularse (timeout) responde el reporte vacío; si se calculó con
// páginas faltantes responde lo obtenido. En ambos casos añade X-Report-Degraded: true.
func (h *AnalyticsHandler) GetSalesReport(c *fiber.Ctx) error {
	r, err := h.svc.GenerateSalesReport(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("reporte de ventas no disponible; se devuelve reporte vacío")
		c.Set(HeaderReportDegraded, "true")
		return c.JSON(appanalytics.EmptySalesReport())
	}
	if r.Truncated {
		c.Set(HeaderReportDegraded, "true")
	}
	return c.JSON(r.Report)
}

// GetDashboardStats devuelve las cuatro cifras del dashboard.
// GET /api/analytics/dashboard-stats
//
// En caso de error: 200 con {"error":"Unable to fetch statistics"}.
func (h *AnalyticsHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.svc.GetDashboardStats(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("estadísticas del dashboard no disponibles")
		return c.JSON(dto.DashboardStatsErrorDTO{Error: dashboardErrorMessage})
	}
	return c.JSON(stats)
}

// GetPlatformStats devuelve las estadísticas crudas de order, product y user service.
// GET /api/analytics/platform-stats
func (h *AnalyticsHandler) GetPlatformStats(c *fiber.Ctx) error {
	return c.JSON(h.svc.GetPlatformStats(c.UserContext()))
}

// Health GET /api/analytics/health y GET /health.
func (h *AnalyticsHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthDTO{
		Status:    "UP",
		Service:   h.service,
		Timestamp: time.Now().UnixMilli(),
	})
}
