package analytics

import (
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Analytics-api/internal/application/dto"
	"github.com/jhoicas/Analytics-api/internal/domain/entity"
)

const topProductsLimit = 5 // tamaño del ranking de productos

// BuildSalesReport calcula el reporte agregado a partir de la lista completa de pedidos.
//
// Función pura: no hace I/O ni falla por datos incompletos; los campos null
// se sustituyen por valores por defecto (importes cero, "Unknown Product").
//   - Ingresos, pedidos, ticket medio, top productos y meses: solo pedidos no cancelados.
//   - Distribución por estado: todos los pedidos, cancelados incluidos.
func BuildSalesReport(orders []entity.Order) dto.SalesReportDTO {
	valid := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if !o.IsCancelled() {
			valid = append(valid, o)
		}
	}

	totalRevenue := decimal.Zero
	for _, o := range valid {
		if amount, ok := o.Amount(); ok {
			totalRevenue = totalRevenue.Add(amount)
		}
	}

	totalOrders := int64(len(valid))
	averageOrderValue := decimal.Zero
	if totalOrders > 0 {
		// DivRound redondea half away from zero: equivale a HALF_UP
		averageOrderValue = totalRevenue.DivRound(decimal.NewFromInt(totalOrders), 2)
	}

	return dto.SalesReportDTO{
		TotalRevenue:      totalRevenue,
		TotalOrders:       totalOrders,
		AverageOrderValue: averageOrderValue,
		TopProducts:       topProducts(valid),
		RevenueByMonth:    revenueByMonth(valid),
		OrdersByStatus:    ordersByStatus(orders),
	}
}

// EmptySalesReport reporte por defecto cuando no se pudo calcular (timeout, upstream caído).
func EmptySalesReport() dto.SalesReportDTO {
	return BuildSalesReport(nil)
}

// ToDashboardStats vista reducida del reporte para las tarjetas del dashboard.
func ToDashboardStats(r dto.SalesReportDTO) dto.DashboardStatsDTO {
	return dto.DashboardStatsDTO{
		TotalRevenue:      r.TotalRevenue,
		TotalOrders:       r.TotalOrders,
		AverageOrderValue: r.AverageOrderValue,
		TopProductsCount:  len(r.TopProducts),
	}
}

type productSales struct {
	id         int64
	name       *string
	totalSales decimal.Decimal
	unitsSold  int
}

// topProducts agrupa las líneas por producto y devuelve los 5 con más ventas.
// A igualdad de ventas se conserva el orden de aparición.
func topProducts(orders []entity.Order) []dto.TopProductDTO {
	byID := make(map[int64]*productSales)
	var seen []*productSales

	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID == nil {
				continue
			}
			ps, ok := byID[*item.ProductID]
			if !ok {
				ps = &productSales{id: *item.ProductID}
				byID[ps.id] = ps
				seen = append(seen, ps)
			}
			if ps.name == nil {
				ps.name = item.ProductName
			}
			ps.totalSales = ps.totalSales.Add(item.LineTotal())
			ps.unitsSold += item.Units()
		}
	}

	slices.SortStableFunc(seen, func(a, b *productSales) int {
		return b.totalSales.Cmp(a.totalSales)
	})
	if len(seen) > topProductsLimit {
		seen = seen[:topProductsLimit]
	}

	out := make([]dto.TopProductDTO, 0, len(seen))
	for _, ps := range seen {
		name := entity.UnknownProductName
		if ps.name != nil {
			name = *ps.name
		}
		out = append(out, dto.TopProductDTO{
			ProductID:   strconv.FormatInt(ps.id, 10),
			ProductName: name,
			TotalSales:  ps.totalSales,
			UnitsSold:   ps.unitsSold,
		})
	}
	return out
}

type monthlyRevenue struct {
	revenue decimal.Decimal
	orders  int
}

// revenueByMonth agrupa por mes de creación y emite los meses en orden Jan → Dec.
// Los pedidos sin fecha no entran; los pedidos sin importe cuentan como pedido pero no suman.
func revenueByMonth(orders []entity.Order) []dto.RevenueDataDTO {
	var buckets [12]*monthlyRevenue

	for _, o := range orders {
		if o.CreatedAt == nil {
			continue
		}
		idx := o.CreatedAt.Month() - time.January
		if buckets[idx] == nil {
			buckets[idx] = &monthlyRevenue{revenue: decimal.Zero}
		}
		if amount, ok := o.Amount(); ok {
			buckets[idx].revenue = buckets[idx].revenue.Add(amount)
		}
		buckets[idx].orders++
	}

	out := make([]dto.RevenueDataDTO, 0, len(buckets))
	for i, b := range buckets {
		if b == nil {
			continue
		}
		out = append(out, dto.RevenueDataDTO{
			Month:   shortMonth(time.January + time.Month(i)),
			Revenue: b.revenue,
			Orders:  b.orders,
		})
	}
	return out
}

// shortMonth nombre corto en inglés: "Jan", "Feb", ...
func shortMonth(m time.Month) string {
	return m.String()[:3]
}

// ordersByStatus cuenta todos los pedidos por estado normalizado, ordenados por cantidad descendente.
func ordersByStatus(orders []entity.Order) []dto.OrderStatusDataDTO {
	counts := make(map[entity.OrderStatus]int)
	var order []entity.OrderStatus

	for _, o := range orders {
		s := o.NormalizedStatus()
		if _, ok := counts[s]; !ok {
			order = append(order, s)
		}
		counts[s]++
	}

	total := len(orders)
	out := make([]dto.OrderStatusDataDTO, 0, len(order))
	for _, s := range order {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[s]) * 100.0 / float64(total)
		}
		out = append(out, dto.OrderStatusDataDTO{
			Status:     string(s),
			Count:      counts[s],
			Percentage: pct,
		})
	}

	slices.SortStableFunc(out, func(a, b dto.OrderStatusDataDTO) int {
		return b.Count - a.Count
	})
	return out
}
