package mergelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/segmerge/engine"
)

// Compression selects the framing of a standalone mergelist file.
type Compression uint8

const (
	// CompressionNone stores plain text.
	CompressionNone Compression = iota
	// CompressionLZ4 wraps the text in an LZ4 frame.
	CompressionLZ4
	// CompressionZSTD wraps the text in a zstd frame.
	CompressionZSTD
)

// String returns the file extension used for the compression.
func (c Compression) String() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZSTD:
		return ".zst"
	default:
		return ".txt"
	}
}

// CompressionFromPath infers the framing from the file extension.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return CompressionLZ4
	case ".zst", ".zstd":
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// NewReader returns a reader that removes the framing from r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter returns a writer that adds the framing. Close flushes the frame
// but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// LoadFile decodes the mergelist at path into s, choosing the framing by
// extension.
func LoadFile(path string, s *engine.Store) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rc, err := NewReader(bufio.NewReader(f), CompressionFromPath(path))
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := Decode(rc, s); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SaveFile encodes s to path, choosing the framing by extension. The file
// is written to a temporary name first and renamed into place.
func SaveFile(path string, s *engine.Store) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	wc, err := NewWriter(tmp, CompressionFromPath(path))
	if err != nil {
		return err
	}
	if err = Encode(wc, s); err != nil {
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
