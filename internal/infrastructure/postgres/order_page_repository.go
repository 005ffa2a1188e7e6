package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Analytics-api/internal/domain/entity"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

var _ repository.OrderPageSource = (*OrderPageRepo)(nil)

// OrderPageRepo lee pedidos paginados directamente de las tablas orders / order_items.
// Misma forma de página que el endpoint de administración del order-service.
type OrderPageRepo struct {
	pool *pgxpool.Pool
}

// NewOrderPageRepository construye el adaptador.
func NewOrderPageRepository(pool *pgxpool.Pool) *OrderPageRepo {
	return &OrderPageRepo{pool: pool}
}

// FetchOrdersPage devuelve la página `page` ordenada por created_at descendente.
// El desempate por id mantiene estable el orden entre páginas.
func (r *OrderPageRepo) FetchOrdersPage(ctx context.Context, page, size int) (*repository.Page[entity.Order], error) {
	if page < 0 || size <= 0 {
		return nil, fmt.Errorf("orders.FetchOrdersPage: página inválida (page=%d, size=%d)", page, size)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, fmt.Errorf("orders.FetchOrdersPage count: %w", err)
	}

	const query = `
	SELECT id, order_number, user_id, total_amount, final_amount, order_status, created_at
	FROM orders
	ORDER BY created_at DESC NULLS LAST, id DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, size, int64(page)*int64(size))
	if err != nil {
		return nil, fmt.Errorf("orders.FetchOrdersPage: %w", err)
	}
	defer rows.Close()

	var (
		orders []entity.Order
		ids    []int64
	)
	for rows.Next() {
		var (
			id          int64
			orderNumber *string
			userID      *int64
			totalAmount decimal.NullDecimal
			finalAmount decimal.NullDecimal
			status      *string
			createdAt   *time.Time
		)
		if err := rows.Scan(&id, &orderNumber, &userID, &totalAmount, &finalAmount, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("orders.FetchOrdersPage scan: %w", err)
		}
		o := entity.Order{
			ID:          &id,
			UserID:      userID,
			TotalAmount: totalAmount,
			FinalAmount: finalAmount,
			CreatedAt:   createdAt,
		}
		if orderNumber != nil {
			o.OrderNumber = *orderNumber
		}
		if status != nil {
			o.Status = *status
		}
		orders = append(orders, o)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders.FetchOrdersPage rows: %w", err)
	}

	items, err := r.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[*orders[i].ID]
	}

	return buildPage(orders, page, size, total), nil
}

// itemsByOrder carga en una sola consulta las líneas de todos los pedidos de la página.
func (r *OrderPageRepo) itemsByOrder(ctx context.Context, orderIDs []int64) (map[int64][]entity.OrderLineItem, error) {
	out := make(map[int64][]entity.OrderLineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	const query = `
	SELECT id, order_id, product_id, product_name, unit_price, quantity, total_price
	FROM order_items
	WHERE order_id = ANY($1)
	ORDER BY order_id, id`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("orders.itemsByOrder: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      int64
			orderID int64
			item    entity.OrderLineItem
		)
		if err := rows.Scan(&id, &orderID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("orders.itemsByOrder scan: %w", err)
		}
		item.ID = &id
		out[orderID] = append(out[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders.itemsByOrder rows: %w", err)
	}
	return out, nil
}

// buildPage completa los metadatos de paginación a partir del total de filas.
func buildPage(orders []entity.Order, page, size int, total int64) *repository.Page[entity.Order] {
	totalPages := int((total + int64(size) - 1) / int64(size))
	if orders == nil {
		orders = []entity.Order{}
	}
	return &repository.Page[entity.Order]{
		Content:          orders,
		Page:             page,
		Size:             size,
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            page == 0,
		Last:             page >= totalPages-1,
		NumberOfElements: len(orders),
	}
}
