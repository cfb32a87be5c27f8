package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		total    int
		wantFrom int
		wantTo   int
		wantPage int
		pages    int
	}{
		{name: "first page", page: 1, total: 8, wantFrom: 1, wantTo: 6, wantPage: 1, pages: 2},
		{name: "last partial page", page: 2, total: 8, wantFrom: 7, wantTo: 8, wantPage: 2, pages: 2},
		{name: "past the end", page: 5, total: 8, wantPage: 5, pages: 2},
		{name: "empty", page: 1, total: 0, wantPage: 1, pages: 0},
		{name: "page zero clamps", page: 0, total: 3, wantFrom: 1, wantTo: 3, wantPage: 1, pages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := NewParams(tt.page, 6)
			meta := GetMeta(params, tt.total)
			assert.Equal(t, tt.wantPage, meta.Page)
			assert.Equal(t, tt.wantFrom, meta.From)
			assert.Equal(t, tt.wantTo, meta.To)
			assert.Equal(t, tt.pages, meta.TotalPages)
		})
	}
}

func TestBounds(t *testing.T) {
	start, end := Bounds(NewParams(2, 6), 8)
	assert.Equal(t, 6, start)
	assert.Equal(t, 8, end)

	start, end = Bounds(NewParams(3, 6), 8)
	assert.Equal(t, 8, start)
	assert.Equal(t, 8, end)
}
