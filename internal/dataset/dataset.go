// Package dataset reads and writes vector datasets in the fvecs layout used by
// common nearest-neighbour benchmarks: every row is a little-endian int32
// dimension followed by that many little-endian float32 values.
//
// Files ending in .zst are zstd streams and files ending in .lz4 are LZ4
// frames; anything else is read as plain fvecs.
package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the stream wrapping of a dataset file.
type Compression uint8

const (
	// CompressionNone reads and writes plain fvecs.
	CompressionNone Compression = iota
	// CompressionZSTD wraps the stream in zstd.
	CompressionZSTD
	// CompressionLZ4 wraps the stream in an LZ4 frame.
	CompressionLZ4
)

// ErrCorrupt is returned for truncated rows or inconsistent dimensions.
var ErrCorrupt = errors.New("corrupt dataset")

// CompressionFor picks the compression from a file extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZSTD
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// ReadFile loads a dataset and returns its rows as one flat buffer.
func ReadFile(path string) (flat []float32, dim int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return Read(f, CompressionFor(path))
}

// WriteFile stores flat as rows of dim values.
func WriteFile(path string, flat []float32, dim int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, CompressionFor(path), flat, dim)
}

// Read decodes a dataset from r.
func Read(r io.Reader, c Compression) ([]float32, int, error) {
	switch c {
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		return decode(dec)
	case CompressionLZ4:
		return decode(lz4.NewReader(r))
	default:
		return decode(r)
	}
}

// Write encodes flat as rows of dim values to w.
func Write(w io.Writer, c Compression, flat []float32, dim int) error {
	if dim <= 0 || len(flat)%dim != 0 {
		return fmt.Errorf("buffer length %d is not a multiple of dimension %d", len(flat), dim)
	}

	switch c {
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if err := encode(enc, flat, dim); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		if err := encode(zw, flat, dim); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	default:
		return encode(w, flat, dim)
	}
}

func decode(r io.Reader) ([]float32, int, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	var (
		flat []float32
		dim  int
		hdr  [4]byte
		row  []byte
	)

	for rows := 0; ; rows++ {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("%w: row %d header: %w", ErrCorrupt, rows, err)
		}

		d := int(int32(binary.LittleEndian.Uint32(hdr[:])))
		if d <= 0 {
			return nil, 0, fmt.Errorf("%w: row %d has dimension %d", ErrCorrupt, rows, d)
		}
		if dim == 0 {
			dim = d
			row = make([]byte, 4*dim)
		} else if d != dim {
			return nil, 0, fmt.Errorf("%w: row %d has dimension %d, want %d", ErrCorrupt, rows, d, dim)
		}

		if _, err := io.ReadFull(br, row); err != nil {
			return nil, 0, fmt.Errorf("%w: row %d values: %w", ErrCorrupt, rows, err)
		}

		for i := range dim {
			flat = append(flat, math.Float32frombits(binary.LittleEndian.Uint32(row[4*i:])))
		}
	}

	if dim == 0 {
		return nil, 0, fmt.Errorf("%w: no rows", ErrCorrupt)
	}

	return flat, dim, nil
}

func encode(w io.Writer, flat []float32, dim int) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	row := make([]byte, 4+4*dim)
	binary.LittleEndian.PutUint32(row, uint32(dim))

	for off := 0; off < len(flat); off += dim {
		for i, v := range flat[off : off+dim] {
			binary.LittleEndian.PutUint32(row[4+4*i:], math.Float32bits(v))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}
