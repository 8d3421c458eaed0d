package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip is interoperable with any gzip reader.
//
// Level 0 means gzip.DefaultCompression, so gzip.NoCompression (also 0) cannot
// be selected; use gzip.HuffmanOnly or gzip.BestSpeed for the cheapest setting.
type Gzip struct {
	Level int
}

var _ Compressor = Gzip{}

func (g Gzip) Compress(src []byte) ([]byte, error) {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gzip) Decompress(src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (Gzip) Name() string { return "gzip" }
