package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// Upstream: timeout o fallo de conexión con otro servicio.
	ErrUpstreamUnavailable = errors.New("servicio upstream no disponible")
	// Upstream respondió con un código HTTP distinto de 2xx.
	ErrUpstreamStatus = errors.New("respuesta upstream con estado inesperado")
	// El cuerpo de la respuesta upstream no se pudo interpretar.
	ErrMalformedPayload = errors.New("payload upstream mal formado")
)
