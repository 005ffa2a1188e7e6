package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/Analytics-api/internal/domain"
	"github.com/jhoicas/Analytics-api/internal/domain/entity"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

const (
	ordersPath     = "/api/admin/orders"
	orderStatsPath = "/api/admin/orders/statistics"
)

// Verificar en tiempo de compilación que OrderServiceClient implementa los puertos.
var (
	_ repository.OrderPageSource = (*OrderServiceClient)(nil)
	_ repository.StatsSource     = (*OrderServiceClient)(nil)
)

// OrderServiceClient adaptador del order-service.
type OrderServiceClient struct {
	client
}

// NewOrderServiceClient construye el cliente para baseURL (p. ej. http://localhost:8083).
func NewOrderServiceClient(baseURL string, opts Options) *OrderServiceClient {
	return &OrderServiceClient{client: newClient("order-service", baseURL, opts)}
}

// ── Formato de respuesta del order-service ──────────────────────────────────
// {"success":true,"message":"...","orders":{"content":[...],"page":0,...,"last":true}}

type orderPageWire struct {
	Content          []orderWire `json:"content"`
	Page             int         `json:"page"`
	Size             int         `json:"size"`
	TotalElements    int64       `json:"totalElements"`
	TotalPages       int         `json:"totalPages"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"numberOfElements"`
}

type orderWire struct {
	ID          *int64              `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	UserID      *int64              `json:"userId"`
	TotalAmount decimal.NullDecimal `json:"totalAmount"`
	FinalAmount decimal.NullDecimal `json:"finalAmount"`
	OrderStatus string              `json:"orderStatus"`
	CreatedAt   localDateTime       `json:"createdAt"`
	OrderItems  []orderItemWire     `json:"orderItems"`
}

type orderItemWire struct {
	ID          *int64              `json:"id"`
	ProductID   *int64              `json:"productId"`
	ProductName *string             `json:"productName"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice"`
	Quantity    *int                `json:"quantity"`
	TotalPrice  decimal.NullDecimal `json:"totalPrice"`
}

func (w orderWire) toEntity() entity.Order {
	o := entity.Order{
		ID:          w.ID,
		OrderNumber: w.OrderNumber,
		UserID:      w.UserID,
		TotalAmount: w.TotalAmount,
		FinalAmount: w.FinalAmount,
		Status:      w.OrderStatus,
		CreatedAt:   w.CreatedAt.t,
		Items:       make([]entity.OrderLineItem, 0, len(w.OrderItems)),
	}
	for _, it := range w.OrderItems {
		o.Items = append(o.Items, entity.OrderLineItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  it.TotalPrice,
		})
	}
	return o
}

// FetchOrdersPage pide una página de pedidos ordenada por createdAt descendente.
func (c *OrderServiceClient) FetchOrdersPage(ctx context.Context, page, size int) (*repository.Page[entity.Order], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", "createdAt")
	q.Set("sortDirection", "desc")

	c.log.Debug().Int("page", page).Int("size", size).Msg("obteniendo página de pedidos")

	body, err := c.get(ctx, ordersPath, q)
	if err != nil {
		return nil, err
	}
	return c.decodePage(body, page, size)
}

// decodePage extrae el nodo "orders" del sobre de respuesta.
// Sin nodo "orders" la página se considera vacía y última; así termina la paginación.
func (c *OrderServiceClient) decodePage(body []byte, page, size int) (*repository.Page[entity.Order], error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s: JSON inválido", domain.ErrMalformedPayload, c.service)
	}

	node := gjson.GetBytes(body, "orders")
	if !node.Exists() || node.Type == gjson.Null {
		c.log.Warn().
			Int("page", page).
			Str("message", gjson.GetBytes(body, "message").String()).
			Msg("respuesta sin nodo orders; se trata como página vacía")
		return &repository.Page[entity.Order]{Page: page, Size: size, Last: true, Content: []entity.Order{}}, nil
	}

	var wire orderPageWire
	if err := json.Unmarshal([]byte(node.Raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: decodificar orders: %v", domain.ErrMalformedPayload, c.service, err)
	}

	out := &repository.Page[entity.Order]{
		Content:          make([]entity.Order, 0, len(wire.Content)),
		Page:             wire.Page,
		Size:             wire.Size,
		TotalElements:    wire.TotalElements,
		TotalPages:       wire.TotalPages,
		First:            wire.First,
		Last:             wire.Last,
		NumberOfElements: wire.NumberOfElements,
	}
	for _, w := range wire.Content {
		out.Content = append(out.Content, w.toEntity())
	}
	return out, nil
}

// FetchStats GET /api/admin/orders/statistics.
func (c *OrderServiceClient) FetchStats(ctx context.Context) (map[string]any, error) {
	return fetchStats(ctx, c.client, orderStatsPath)
}
