package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-1))
	assert.Equal(t, 25, NormalizeLimit(25))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 10, Offset(2, 10))
	assert.Equal(t, 0, Offset(0, 10))
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 10, want: 0},
		{total: 1, limit: 10, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 25, limit: 10, want: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage(2, 10, 25)
	assert.Equal(t, Page{Page: 2, Limit: 10, Total: 25, Pages: 3}, page)

	// Mangled params fall back to defaults.
	page = NewPage(0, 0, 5)
	assert.Equal(t, Page{Page: 1, Limit: DefaultLimit, Total: 5, Pages: 1}, page)
}
