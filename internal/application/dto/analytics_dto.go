package dto

import "github.com/shopspring/decimal"

func init() {
	// El dashboard consume los importes como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ── Reporte de ventas ─────────────────────────────────────────────────────────

// SalesReportDTO respuesta de GET /api/analytics/sales-report.
// Se recalcula en cada petición; nunca se persiste.
type SalesReportDTO struct {
	TotalRevenue      decimal.Decimal      `json:"totalRevenue"`      // suma de pedidos no cancelados
	TotalOrders       int64                `json:"totalOrders"`       // pedidos no cancelados
	AverageOrderValue decimal.Decimal      `json:"averageOrderValue"` // TotalRevenue / TotalOrders, HALF_UP 2 decimales
	TopProducts       []TopProductDTO      `json:"topProducts"`       // top 5 por ventas
	RevenueByMonth    []RevenueDataDTO     `json:"revenueByMonth"`    // Jan → Dec, solo meses con pedidos
	OrdersByStatus    []OrderStatusDataDTO `json:"ordersByStatus"`    // incluye cancelados
}

// TopProductDTO producto del ranking de ventas.
type TopProductDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	UnitsSold   int             `json:"unitsSold"`
}

// RevenueDataDTO ingresos y pedidos de un mes calendario.
type RevenueDataDTO struct {
	Month   string          `json:"month"` // nombre corto en inglés: Jan, Feb, ...
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// OrderStatusDataDTO cantidad y porcentaje de pedidos por estado normalizado.
type OrderStatusDataDTO struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // sobre el total de pedidos, cancelados incluidos
}

// ── Vistas reducidas ──────────────────────────────────────────────────────────

// DashboardStatsDTO respuesta de GET /api/analytics/dashboard-stats.
type DashboardStatsDTO struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalOrders       int64           `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopProductsCount  int             `json:"topProductsCount"`
}

// DashboardStatsErrorDTO cuerpo devuelto (con HTTP 200) cuando no se pudo calcular el resumen.
type DashboardStatsErrorDTO struct {
	Error string `json:"error"`
}

// PlatformStatsDTO respuesta de GET /api/analytics/platform-stats.
// Stats contiene el mapa opaco de cada servicio que respondió; Errors el motivo de los que no.
type PlatformStatsDTO struct {
	Stats  map[string]map[string]any `json:"stats"`
	Errors map[string]string         `json:"errors,omitempty"`
}

// HealthDTO respuesta del endpoint de salud.
type HealthDTO struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp int64  `json:"timestamp"` // epoch en milisegundos
}
