// Package upstream implementa los adaptadores HTTP hacia order-service, product-service
// y user-service. Cada llamada es un único intento acotado por timeout; sin reintentos.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Analytics-api/internal/domain"
)

const (
	// DefaultTimeout tiempo máximo de una llamada upstream.
	DefaultTimeout = 30 * time.Second
	// maxBodyBytes límite del cuerpo de respuesta (1 MiB).
	maxBodyBytes = 1 << 20

	HeaderRequestID = "X-Request-ID"
)

// Resultados de una llamada, usados como etiqueta de métricas.
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeUnavailable = "unavailable"
	OutcomeStatus      = "status"
)

// TokenSource entrega el bearer token de servicio. Lo implementa pkg/jwt.ServiceTokenSource.
type TokenSource interface {
	Token() (string, error)
}

// Observer recibe una observación por cada llamada upstream.
type Observer interface {
	UpstreamCall(service, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) UpstreamCall(string, string, time.Duration) {}

// Options dependencias compartidas por los clientes.
type Options struct {
	Timeout    time.Duration
	Tokens     TokenSource // nil = llamadas sin Authorization
	Observer   Observer
	Log        zerolog.Logger
	HTTPClient *http.Client // opcional; por defecto uno con Timeout
}

// ── Request ID en el contexto ────────────────────────────────────────────────

type requestIDKey struct{}

// WithRequestID guarda el ID de la petición entrante para propagarlo upstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom devuelve el ID guardado con WithRequestID o "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ── Cliente base ─────────────────────────────────────────────────────────────

type client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observer   Observer
	log        zerolog.Logger
}

func newClient(service, baseURL string, opts Options) client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		tokens:     opts.Tokens,
		observer:   obs,
		log:        opts.Log.With().Str("upstream", service).Logger(),
	}
}

// get hace GET {baseURL}{path}?{query} y devuelve el cuerpo de una respuesta 2xx.
func (c client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	start := time.Now()
	body, outcome, err := c.do(ctx, path, query)
	c.observer.UpstreamCall(c.service, outcome, time.Since(start))
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Str("outcome", outcome).Msg("llamada upstream fallida")
	}
	return body, err
}

func (c client) do(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, OutcomeUnavailable, fmt.Errorf("%s: crear request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, OutcomeUnavailable, fmt.Errorf("%s: token de servicio: %w", c.service, err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, OutcomeTimeout, fmt.Errorf("%w: %s: timeout o cancelación: %v", domain.ErrUpstreamUnavailable, c.service, err)
		}
		return nil, OutcomeUnavailable, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, c.service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, OutcomeUnavailable, fmt.Errorf("%w: %s: leer respuesta: %v", domain.ErrUpstreamUnavailable, c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, OutcomeStatus, fmt.Errorf("%w: %s HTTP %d: %s", domain.ErrUpstreamStatus, c.service, resp.StatusCode, snippet(raw))
	}
	return raw, OutcomeOK, nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// snippet recorta el cuerpo para el mensaje de error.
func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
