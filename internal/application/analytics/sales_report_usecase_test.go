package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Analytics-api/internal/application/analytics"
	"github.com/jhoicas/Analytics-api/internal/domain/entity"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

type fakeStats struct {
	stats map[string]any
	err   error
	delay time.Duration
}

func (f fakeStats) FetchStats(ctx context.Context) (map[string]any, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.stats, f.err
}

func newUseCase(src repository.OrderPageSource, stats map[string]repository.StatsSource, cfg analytics.ReportConfig, rec analytics.Recorder) *analytics.SalesReportUseCase {
	f := analytics.NewOrderFetcher(src, zerolog.Nop(), rec)
	return analytics.NewSalesReportUseCase(f, stats, cfg, zerolog.Nop(), rec)
}

// ──────────────────────────────────────────────────────────────────────────────
// GenerateSalesReport / GetDashboardStats
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateSalesReport_OK(t *testing.T) {
	rec := &countingRecorder{}
	uc := newUseCase(newFakePages(buildPages(25, 10)...), nil, analytics.ReportConfig{PageSize: 10}, rec)

	r, err := uc.GenerateSalesReport(context.Background())

	require.NoError(t, err)
	assert.False(t, r.Truncated)
	assert.Equal(t, 25, r.OrdersFetched)
	assert.Equal(t, int64(25), r.Report.TotalOrders)
	assertDecimal(t, "250", r.Report.TotalRevenue)
	assertDecimal(t, "10", r.Report.AverageOrderValue)
	assert.Equal(t, false, rec.reports["sales_report"])
}

func TestGenerateSalesReport_ErrorUpstreamMarcaTruncado(t *testing.T) {
	src := newFakePages(buildPages(30, 10)...)
	src.errAt = 2
	rec := &countingRecorder{}
	uc := newUseCase(src, nil, analytics.ReportConfig{PageSize: 10}, rec)

	r, err := uc.GenerateSalesReport(context.Background())

	require.NoError(t, err, "un fallo a mitad de paginación no es error para el caller")
	assert.True(t, r.Truncated)
	assert.Equal(t, 20, r.OrdersFetched)
	assertDecimal(t, "200", r.Report.TotalRevenue)
	assert.Equal(t, true, rec.reports["sales_report"])
}

func TestGenerateSalesReport_Timeout(t *testing.T) {
	src := newFakePages(buildPages(30, 10)...)
	src.blockAt = 1
	rec := &countingRecorder{}
	uc := newUseCase(src, nil, analytics.ReportConfig{PageSize: 10, ReportTimeout: 50 * time.Millisecond}, rec)

	start := time.Now()
	r, err := uc.GenerateSalesReport(context.Background())

	assert.Nil(t, r)
	assert.ErrorIs(t, err, analytics.ErrReportTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, true, rec.reports["sales_report"])
}

func TestGetDashboardStats_OK(t *testing.T) {
	page := &repository.Page[entity.Order]{
		First: true,
		Last:  true,
		Content: []entity.Order{
			{FinalAmount: dec("100"), Status: "DELIVERED", Items: []entity.OrderLineItem{item(1, "A", "100", 1)}},
			{FinalAmount: dec("50"), Status: "CANCELLED", Items: []entity.OrderLineItem{item(2, "B", "50", 1)}},
			{TotalAmount: dec("75"), Status: "PENDING", Items: []entity.OrderLineItem{item(3, "C", "75", 1)}},
		},
	}
	uc := newUseCase(newFakePages(page), nil, analytics.ReportConfig{}, nil)

	stats, err := uc.GetDashboardStats(context.Background())

	require.NoError(t, err)
	assertDecimal(t, "175", stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assertDecimal(t, "87.50", stats.AverageOrderValue)
	assert.Equal(t, 2, stats.TopProductsCount)
}

func TestGetDashboardStats_Timeout(t *testing.T) {
	src := newFakePages(buildPages(10, 10)...)
	src.blockAt = 0
	uc := newUseCase(src, nil, analytics.ReportConfig{DashboardTimeout: 30 * time.Millisecond}, nil)

	stats, err := uc.GetDashboardStats(context.Background())

	assert.Nil(t, stats)
	assert.True(t, errors.Is(err, analytics.ErrReportTimeout))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetPlatformStats
// ──────────────────────────────────────────────────────────────────────────────

func TestGetPlatformStats_Parcial(t *testing.T) {
	stats := map[string]repository.StatsSource{
		analytics.ServiceOrders:   fakeStats{stats: map[string]any{"totalOrders": float64(12)}},
		analytics.ServiceProducts: fakeStats{err: errors.New("product-service: connection refused")},
		analytics.ServiceUsers:    fakeStats{},
	}
	uc := newUseCase(newFakePages(), stats, analytics.ReportConfig{}, nil)

	out := uc.GetPlatformStats(context.Background())

	assert.Equal(t, float64(12), out.Stats[analytics.ServiceOrders]["totalOrders"])
	assert.NotContains(t, out.Stats, analytics.ServiceProducts)
	assert.Contains(t, out.Errors[analytics.ServiceProducts], "connection refused")
	require.Contains(t, out.Stats, analytics.ServiceUsers)
	assert.NotNil(t, out.Stats[analytics.ServiceUsers], "stats null se devuelven como objeto vacío")
	assert.Len(t, out.Errors, 1)
}

func TestGetPlatformStats_ServicioLentoRespetaTimeout(t *testing.T) {
	stats := map[string]repository.StatsSource{
		analytics.ServiceOrders: fakeStats{stats: map[string]any{"ok": true}},
		analytics.ServiceUsers:  fakeStats{delay: time.Minute},
	}
	uc := newUseCase(newFakePages(), stats, analytics.ReportConfig{DashboardTimeout: 40 * time.Millisecond}, nil)

	start := time.Now()
	out := uc.GetPlatformStats(context.Background())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Contains(t, out.Stats, analytics.ServiceOrders)
	assert.Contains(t, out.Errors, analytics.ServiceUsers)
}

func TestGetPlatformStats_SinFuentes(t *testing.T) {
	uc := newUseCase(newFakePages(), nil, analytics.ReportConfig{}, nil)

	out := uc.GetPlatformStats(context.Background())

	assert.NotNil(t, out.Stats)
	assert.Empty(t, out.Stats)
	assert.Nil(t, out.Errors)
}
