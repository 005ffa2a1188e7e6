package analytics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Analytics-api/internal/domain/entity"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
)

// DefaultPageSize tamaño de página usado si el caller no indica uno válido.
const DefaultPageSize = 100

// FetchResult pedidos acumulados y cómo terminó la paginación.
type FetchResult struct {
	Orders    []entity.Order // en orden de llegada, sin reordenar
	Pages     int            // páginas respondidas por el upstream
	Truncated bool           // true si una página falló y se cortó la paginación
	Err       error          // error de la página que cortó la paginación
}

// OrderFetcher recorre la fuente paginada de pedidos de forma secuencial.
//
// Política ante errores: si una página falla se registra el error, se deja de paginar
// y se devuelve lo acumulado hasta ese momento. Sin reintentos ni backoff.
type OrderFetcher struct {
	source   repository.OrderPageSource
	log      zerolog.Logger
	recorder Recorder
}

// NewOrderFetcher construye el fetcher. recorder puede ser nil.
func NewOrderFetcher(source repository.OrderPageSource, log zerolog.Logger, recorder Recorder) *OrderFetcher {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &OrderFetcher{source: source, log: log, recorder: recorder}
}

// FetchAll pide páginas desde la 0 hasta que una venga marcada como última o sin contenido.
// Nunca devuelve error: el corte por fallo se informa en FetchResult.
func (f *OrderFetcher) FetchAll(ctx context.Context, pageSize int) FetchResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	res := FetchResult{Orders: make([]entity.Order, 0, pageSize)}
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			f.truncate(&res, page, pageSize, err)
			return res
		}

		p, err := f.source.FetchOrdersPage(ctx, page, pageSize)
		if err != nil {
			f.truncate(&res, page, pageSize, err)
			return res
		}
		res.Pages++
		f.recorder.PageFetched()

		if p == nil || len(p.Content) == 0 {
			break
		}
		res.Orders = append(res.Orders, p.Content...)
		if p.Last {
			break
		}
	}

	f.log.Debug().
		Int("pages", res.Pages).
		Int("orders", len(res.Orders)).
		Msg("pedidos obtenidos")
	return res
}

func (f *OrderFetcher) truncate(res *FetchResult, page, size int, err error) {
	res.Truncated = true
	res.Err = err
	f.recorder.FetchTruncated()
	f.log.Warn().
		Err(err).
		Int("page", page).
		Int("size", size).
		Int("orders", len(res.Orders)).
		Msg("error al obtener página de pedidos; se devuelve resultado parcial")
}
