package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Analytics-api/internal/domain/entity"
)

func TestBuildPage(t *testing.T) {
	cases := []struct {
		name       string
		rows       int
		page, size int
		total      int64
		wantPages  int
		wantFirst  bool
		wantLast   bool
	}{
		{"tabla vacía", 0, 0, 100, 0, 0, true, true},
		{"una página exacta", 100, 0, 100, 100, 1, true, true},
		{"primera de tres", 100, 0, 100, 250, 3, true, false},
		{"intermedia", 100, 1, 100, 250, 3, false, false},
		{"última parcial", 50, 2, 100, 250, 3, false, true},
		{"fuera de rango", 0, 7, 100, 250, 3, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := make([]entity.Order, tc.rows)
			p := buildPage(orders, tc.page, tc.size, tc.total)

			assert.Equal(t, tc.wantPages, p.TotalPages)
			assert.Equal(t, tc.wantFirst, p.First)
			assert.Equal(t, tc.wantLast, p.Last)
			assert.Equal(t, tc.rows, p.NumberOfElements)
			assert.Equal(t, tc.total, p.TotalElements)
		})
	}
}

func TestBuildPage_ContenidoNuncaNil(t *testing.T) {
	p := buildPage(nil, 0, 10, 0)
	require.NotNil(t, p.Content)
	assert.Empty(t, p.Content)
}

func TestFetchOrdersPage_ParametrosInvalidos(t *testing.T) {
	r := NewOrderPageRepository(nil)

	_, err := r.FetchOrdersPage(context.Background(), -1, 10)
	assert.Error(t, err)

	_, err = r.FetchOrdersPage(context.Background(), 0, 0)
	assert.Error(t, err)
}
