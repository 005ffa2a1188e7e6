// Package analytics contiene el pipeline del reporte de ventas: obtención paginada
// de pedidos, agregación en memoria y las vistas para el dashboard de administración.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Analytics-api/internal/application/dto"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

// ErrReportTimeout el reporte no terminó dentro del tiempo asignado.
var ErrReportTimeout = errors.New("analytics: tiempo de generación del reporte agotado")

// Nombres de los servicios consultados por GetPlatformStats.
const (
	ServiceOrders   = "orders"
	ServiceProducts = "products"
	ServiceUsers    = "users"
)

// ReportConfig límites del pipeline.
type ReportConfig struct {
	PageSize         int
	ReportTimeout    time.Duration // reporte completo (60 s)
	DashboardTimeout time.Duration // resumen del dashboard (30 s)
}

// SalesReport reporte calculado más el estado de la paginación que lo alimentó.
type SalesReport struct {
	Report        dto.SalesReportDTO
	OrdersFetched int
	Truncated     bool // faltan páginas por un error upstream
}

// SalesReportUseCase orquesta fetch → agregación → presentación.
//
// No mantiene estado entre peticiones: cada llamada vuelve a paginar los pedidos
// y recalcula el reporte desde cero.
type SalesReportUseCase struct {
	fetcher  *OrderFetcher
	stats    map[string]repository.StatsSource
	cfg      ReportConfig
	log      zerolog.Logger
	recorder Recorder
}

// NewSalesReportUseCase construye el caso de uso.
// stats asocia nombre de servicio (ServiceOrders, ...) con su endpoint de estadísticas.
func NewSalesReportUseCase(
	fetcher *OrderFetcher,
	stats map[string]repository.StatsSource,
	cfg ReportConfig,
	log zerolog.Logger,
	recorder Recorder,
) *SalesReportUseCase {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.ReportTimeout <= 0 {
		cfg.ReportTimeout = 60 * time.Second
	}
	if cfg.DashboardTimeout <= 0 {
		cfg.DashboardTimeout = 30 * time.Second
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &SalesReportUseCase{
		fetcher:  fetcher,
		stats:    stats,
		cfg:      cfg,
		log:      log,
		recorder: recorder,
	}
}

// GenerateSalesReport calcula el reporte completo con el timeout de reporte.
//
// Un error upstream a mitad de la paginación no es un error: el reporte se calcula
// con los pedidos obtenidos y se marca Truncated. Solo el timeout devuelve error.
func (uc *SalesReportUseCase) GenerateSalesReport(ctx context.Context) (*SalesReport, error) {
	return uc.generate(ctx, "sales_report", uc.cfg.ReportTimeout)
}

// GetDashboardStats calcula la vista reducida con el timeout del dashboard.
func (uc *SalesReportUseCase) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	r, err := uc.generate(ctx, "dashboard_stats", uc.cfg.DashboardTimeout)
	if err != nil {
		return nil, err
	}
	stats := ToDashboardStats(r.Report)
	return &stats, nil
}

func (uc *SalesReportUseCase) generate(ctx context.Context, kind string, timeout time.Duration) (*SalesReport, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	uc.log.Info().Str("kind", kind).Msg("generando reporte de ventas")

	fetched := uc.fetcher.FetchAll(ctx, uc.cfg.PageSize)
	if fetched.Truncated && ctx.Err() != nil {
		uc.recorder.ReportGenerated(kind, time.Since(start), true)
		return nil, fmt.Errorf("%w (%s, %d pedidos parciales): %v", ErrReportTimeout, timeout, len(fetched.Orders), ctx.Err())
	}

	report := BuildSalesReport(fetched.Orders)
	uc.recorder.ReportGenerated(kind, time.Since(start), fetched.Truncated)

	uc.log.Info().
		Str("kind", kind).
		Int("orders", len(fetched.Orders)).
		Bool("truncated", fetched.Truncated).
		Str("total_revenue", report.TotalRevenue.String()).
		Dur("elapsed", time.Since(start)).
		Msg("reporte de ventas generado")

	return &SalesReport{
		Report:        report,
		OrdersFetched: len(fetched.Orders),
		Truncated:     fetched.Truncated,
	}, nil
}

// GetPlatformStats consulta en paralelo los endpoints de estadísticas de cada servicio.
// Un servicio que falla se informa en Errors y no impide devolver el resto.
func (uc *SalesReportUseCase) GetPlatformStats(ctx context.Context) dto.PlatformStatsDTO {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.DashboardTimeout)
	defer cancel()

	type statsResult struct {
		service string
		stats   map[string]any
		err     error
	}

	// Un canal con buffer para todos: ninguna goroutine queda bloqueada si el caller se va.
	results := make(chan statsResult, len(uc.stats))
	for name, src := range uc.stats {
		go func(name string, src repository.StatsSource) {
			s, err := src.FetchStats(ctx)
			results <- statsResult{service: name, stats: s, err: err}
		}(name, src)
	}

	out := dto.PlatformStatsDTO{Stats: make(map[string]map[string]any, len(uc.stats))}
	for range uc.stats {
		r := <-results
		if r.err != nil {
			uc.log.Warn().Err(r.err).Str("service", r.service).Msg("estadísticas upstream no disponibles")
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[r.service] = r.err.Error()
			continue
		}
		if r.stats == nil {
			r.stats = map[string]any{}
		}
		out.Stats[r.service] = r.stats
	}
	return out
}
