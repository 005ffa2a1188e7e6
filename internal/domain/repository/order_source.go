package repository

import (
	"context"

	"github.com/jhoicas/Analytics-api/internal/domain/entity"
)

// Page página de resultados tal como la devuelve el order-service.
type Page[T any] struct {
	Content          []T
	Page             int
	Size             int
	TotalElements    int64
	TotalPages       int
	First            bool
	Last             bool
	NumberOfElements int
}

// OrderPageSource fuente paginada de pedidos (order-service vía HTTP o lectura directa en PostgreSQL).
type OrderPageSource interface {
	// FetchOrdersPage devuelve la página `page` (base 0) de tamaño `size`,
	// ordenada por fecha de creación descendente.
	FetchOrdersPage(ctx context.Context, page, size int) (*Page[entity.Order], error)
}

// StatsSource endpoint de estadísticas de un servicio; el contenido es opaco (clave → valor).
type StatsSource interface {
	FetchStats(ctx context.Context) (map[string]any, error)
}
