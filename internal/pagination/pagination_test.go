package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMeta(t *testing.T) {
	meta := NewMeta(45, 2, 20)

	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestNewMeta_LastPage(t *testing.T) {
	meta := NewMeta(45, 3, 20)

	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestNewMeta_ExactMultiple(t *testing.T) {
	meta := NewMeta(40, 1, 20)

	assert.Equal(t, 2, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestNewMeta_EmptyResult(t *testing.T) {
	meta := NewMeta(0, 1, 20)

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
}
