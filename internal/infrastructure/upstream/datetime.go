package upstream

import (
	"bytes"
	"encoding/json"
	"time"
)

// Formatos aceptados para createdAt. Las fechas sin zona se interpretan en UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// localDateTime fecha de creación del order-service. Acepta texto ISO (con o sin
// fracción, con o sin zona) y la forma de arreglo [año, mes, día, hora, min, seg, nanos].
// Un valor que no se puede interpretar queda en nil sin fallar la decodificación del pedido.
type localDateTime struct {
	t *time.Time
}

func (d *localDateTime) UnmarshalJSON(b []byte) error {
	d.t = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		d.t = parseDateTime(s)
	case '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return nil
		}
		d.t = dateTimeFromParts(parts)
	}
	return nil
}

func parseDateTime(s string) *time.Time {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func dateTimeFromParts(p []int) *time.Time {
	if len(p) < 3 || p[1] < 1 || p[1] > 12 {
		return nil
	}
	v := make([]int, 7)
	copy(v, p)
	t := time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], v[6], time.UTC)
	return &t
}
