package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"defaults", "/items", 1, 10, 0},
		{"explicit window", "/items?page=3&per_page=20", 3, 20, 40},
		{"per_page capped", "/items?per_page=500", 1, 100, 0},
		{"zero page falls back", "/items?page=0", 1, 10, 0},
		{"negative values fall back", "/items?page=-2&per_page=-5", 1, 10, 0},
		{"non-numeric values fall back", "/items?page=abc&per_page=xyz", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	params := Params{Page: 2, PerPage: 10, Offset: 10}
	result := NewResult([]string{"a", "b"}, 25, params)

	assert.Equal(t, 25, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_NilDataNormalized(t *testing.T) {
	result := NewResult[string](nil, 0, DefaultParams())

	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Zero(t, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestNewResult_ExactPageBoundary(t *testing.T) {
	result := NewResult([]int{1, 2}, 20, Params{Page: 2, PerPage: 10, Offset: 10})

	assert.Equal(t, 2, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}
