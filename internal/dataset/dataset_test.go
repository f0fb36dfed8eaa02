package dataset

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecshard/testutil"
)

func TestRoundTrip(t *testing.T) {
	flat := testutil.NewRNG(3).UniformFlat(50, 7)

	for _, name := range []string{"data.fvecs", "data.fvecs.zst", "data.fvecs.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, WriteFile(path, flat, 7))

			got, dim, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, 7, dim)
			assert.Equal(t, flat, got)
		})
	}
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionZSTD, CompressionFor("a.fvecs.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFor("a.LZ4"))
	assert.Equal(t, CompressionNone, CompressionFor("a.fvecs"))
}

func TestReadCorrupt(t *testing.T) {
	row := func(dim int32, vals ...float32) []byte {
		var buf bytes.Buffer
		_ = binary.Write(&buf, binary.LittleEndian, dim)
		_ = binary.Write(&buf, binary.LittleEndian, vals)
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "zero dimension", data: row(0)},
		{name: "truncated values", data: row(3, 1, 2)},
		{name: "truncated header", data: append(row(1, 1), 0x01)},
		{name: "mixed dimensions", data: append(row(1, 1), row(2, 1, 2)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(bytes.NewReader(tt.data), CompressionNone)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestWriteRejectsMisaligned(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, CompressionNone, []float32{1, 2, 3}, 2))
	assert.Error(t, Write(&buf, CompressionNone, []float32{1, 2}, 0))
}
