package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado normalizado de un pedido para la distribución por estado.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusUnknown    OrderStatus = "unknown"
)

// AllStatuses vocabulario completo en orden de ciclo de vida.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusUnknown,
}

// UnknownProductName etiqueta para líneas sin nombre de producto.
const UnknownProductName = "Unknown Product"

// Order copia de solo lectura de un pedido del order-service.
// Los campos opcionales son punteros o NullDecimal: el payload upstream puede traer nulls.
type Order struct {
	ID          *int64
	OrderNumber string
	UserID      *int64
	TotalAmount decimal.NullDecimal
	FinalAmount decimal.NullDecimal // total tras descuentos/impuestos
	Status      string              // valor crudo del upstream (PENDING, CONFIRMED, ...)
	CreatedAt   *time.Time
	Items       []OrderLineItem
}

// OrderLineItem línea de un pedido; no tiene ciclo de vida propio.
type OrderLineItem struct {
	ID          *int64
	ProductID   *int64
	ProductName *string
	UnitPrice   decimal.NullDecimal
	Quantity    *int
	TotalPrice  decimal.NullDecimal
}

// Amount devuelve FinalAmount si está presente, si no TotalAmount.
// ok es false cuando el pedido no trae ninguno de los dos.
func (o Order) Amount() (amount decimal.Decimal, ok bool) {
	if o.FinalAmount.Valid {
		return o.FinalAmount.Decimal, true
	}
	if o.TotalAmount.Valid {
		return o.TotalAmount.Decimal, true
	}
	return decimal.Zero, false
}

// IsCancelled compara el estado crudo con CANCELLED (sin distinguir mayúsculas, con trim).
func (o Order) IsCancelled() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), "CANCELLED")
}

// NormalizedStatus ver NormalizeStatus.
func (o Order) NormalizedStatus() OrderStatus {
	return NormalizeStatus(o.Status)
}

// NormalizeStatus lleva el estado crudo al vocabulario fijo del reporte.
// CONFIRMED y PROCESSING se agrupan en processing; vacío o desconocido → unknown.
func NormalizeStatus(raw string) OrderStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING":
		return StatusPending
	case "CONFIRMED", "PROCESSING":
		return StatusProcessing
	case "SHIPPED":
		return StatusShipped
	case "DELIVERED":
		return StatusDelivered
	case "CANCELLED":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// LineTotal total de la línea; cero si viene null.
func (i OrderLineItem) LineTotal() decimal.Decimal {
	if i.TotalPrice.Valid {
		return i.TotalPrice.Decimal
	}
	return decimal.Zero
}

// Units cantidad de unidades; cero si viene null.
func (i OrderLineItem) Units() int {
	if i.Quantity == nil {
		return 0
	}
	return *i.Quantity
}

// Name nombre del producto o UnknownProductName.
func (i OrderLineItem) Name() string {
	if i.ProductName == nil {
		return UnknownProductName
	}
	return *i.ProductName
}
