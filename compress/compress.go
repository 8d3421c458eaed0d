// Package compress defines the lossless compressors the cache can apply to
// payloads before they are written to the store.
//
// Compressors must be safe for concurrent use: batch operations compress and
// decompress every item of a batch in its own goroutine.
package compress

import "fmt"

// Compressor turns bytes into a smaller representation and back.
// Decompress(Compress(b)) must return b for every input.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// ByName resolves a compressor from its configuration name.
// Known names: "snappy", "lz4", "zstd", "gzip". Empty selects Snappy.
func ByName(name string) (Compressor, error) {
	switch name {
	case "", "snappy":
		return Snappy{}, nil
	case "lz4":
		return LZ4{}, nil
	case "zstd":
		return NewZstd()
	case "gzip":
		return Gzip{}, nil
	default:
		return nil, &UnknownError{Name: name}
	}
}

// UnknownError is returned by ByName for names it does not recognize.
type UnknownError struct{ Name string }

func (e *UnknownError) Error() string {
	return fmt.Sprintf("compress: unknown compressor %q", e.Name)
}
