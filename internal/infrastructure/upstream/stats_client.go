package upstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Analytics-api/internal/domain"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

const (
	productStatsPath = "/api/admin/products/stats"
	userStatsPath    = "/api/admin/users/stats"
)

var _ repository.StatsSource = (*StatsClient)(nil)

// StatsClient consulta el endpoint de estadísticas de un servicio que no expone pedidos.
type StatsClient struct {
	client
	path string
}

// NewProductStatsClient cliente de /api/admin/products/stats.
func NewProductStatsClient(baseURL string, opts Options) *StatsClient {
	return &StatsClient{client: newClient("product-service", baseURL, opts), path: productStatsPath}
}

// NewUserStatsClient cliente de /api/admin/users/stats.
func NewUserStatsClient(baseURL string, opts Options) *StatsClient {
	return &StatsClient{client: newClient("user-service", baseURL, opts), path: userStatsPath}
}

// FetchStats devuelve el objeto JSON tal cual; un cuerpo "null" o vacío da nil.
func (c *StatsClient) FetchStats(ctx context.Context) (map[string]any, error) {
	return fetchStats(ctx, c.client, c.path)
}

func fetchStats(ctx context.Context, c client, path string) (map[string]any, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	var stats map[string]any
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("%w: %s: estadísticas: %v", domain.ErrMalformedPayload, c.service, err)
	}
	return stats, nil
}
