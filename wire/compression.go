package wire

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Compression transforms whole frames.
type Compression interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

func init() {
	RegisterCompression("none", func() Compression { return noCompression{} })
	RegisterCompression("gzip", func() Compression { return gzipCompression{level: gzip.DefaultCompression} })
}

type noCompression struct{}

func (noCompression) Name() string                           { return "none" }
func (noCompression) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noCompression) Decompress(data []byte) ([]byte, error) { return data, nil }

type gzipCompression struct {
	level int
}

func (gzipCompression) Name() string { return "gzip" }

func (g gzipCompression) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, fmt.Errorf("wire: gzip: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("wire: gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("wire: gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCompression) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("wire: gunzip: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wire: gunzip: %w", err)
	}
	return out, nil
}
