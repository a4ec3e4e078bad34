package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	return FromRequest(httptest.NewRequest(http.MethodGet, "/products"+query, nil))
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
		offset  int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit window", "?page=3&per_page=50", 3, 50, 100},
		{"negative page falls back", "?page=-1", 1, 20, 0},
		{"zero page falls back", "?page=0", 1, 20, 0},
		{"non-numeric page falls back", "?page=abc", 1, 20, 0},
		{"per_page over cap falls back", "?per_page=200", 1, 20, 0},
		{"per_page at cap accepted", "?per_page=100", 1, 100, 0},
		{"zero per_page falls back", "?per_page=0", 1, 20, 0},
		{"offset follows window", "?page=5&per_page=20", 5, 20, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(t, tt.query)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		r := NewResult([]string{"a", "b", "c"}, 3, Params{Page: 1, PerPage: 10})

		assert.Equal(t, 3, r.TotalCount)
		assert.Equal(t, 1, r.TotalPages)
		assert.False(t, r.HasNext)
		assert.False(t, r.HasPrev)
	})

	t.Run("middle page", func(t *testing.T) {
		r := NewResult([]string{"a", "b"}, 10, Params{Page: 2, PerPage: 2})

		assert.Equal(t, 5, r.TotalPages)
		assert.True(t, r.HasNext)
		assert.True(t, r.HasPrev)
	})

	t.Run("partial last page rounds up", func(t *testing.T) {
		r := NewResult([]string{"a"}, 11, Params{Page: 3, PerPage: 5})

		assert.Equal(t, 3, r.TotalPages)
		assert.False(t, r.HasNext)
		assert.True(t, r.HasPrev)
	})

	t.Run("empty", func(t *testing.T) {
		r := NewResult([]string{}, 0, Params{Page: 1, PerPage: 20})

		assert.Equal(t, 0, r.TotalPages)
		assert.False(t, r.HasNext)
		assert.False(t, r.HasPrev)
	})

	t.Run("zero per_page does not divide by zero", func(t *testing.T) {
		r := NewResult([]string{"a"}, 1, Params{Page: 1})

		assert.Equal(t, 1, r.TotalPages)
		assert.Equal(t, 20, r.PerPage)
	})
}
