package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutPair(t *testing.T) {
	tests := []struct {
		name   string
		ptr    uint32
		length uint32
		want   []byte
	}{
		{
			name:   "typical values",
			ptr:    0x12345678,
			length: 0x0000ABCD,
			want:   []byte{0x78, 0x56, 0x34, 0x12, 0xCD, 0xAB, 0x00, 0x00},
		},
		{
			name: "zero pair",
			want: make([]byte, 8),
		},
		{
			name:   "max pointer",
			ptr:    0xFFFFFFFF,
			length: 1,
			want:   []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01, 0x00, 0x00, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, PairSize)
			PutPair(b, tt.ptr, tt.length)
			assert.Equal(t, tt.want, b)

			gotPtr, gotLen := Pair(b)
			assert.Equal(t, tt.ptr, gotPtr, "pointer mismatch")
			assert.Equal(t, tt.length, gotLen, "length mismatch")
		})
	}
}

func TestPair_PanicsOnShortBuffer(t *testing.T) {
	assert.Panics(t, func() {
		Pair(make([]byte, 7))
	})
}

func TestPagesFor(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{PageSize, 1},
		{PageSize + 1, 2},
		{100 * 1024 * 1024, 1600},
		{100*1024*1024 + 1, 1601},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PagesFor(tt.n), "PagesFor(%d)", tt.n)
	}
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(0, 0, 0))
	assert.True(t, Fits(10, 6, 16))
	assert.False(t, Fits(10, 7, 16))
	assert.False(t, Fits(17, 0, 16))
	assert.False(t, Fits(1, ^uint64(0), 16), "must not overflow")
	assert.Equal(t, uint64(24), DirectorySize(3))
}
