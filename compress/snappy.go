package compress

import "github.com/golang/snappy"

// Snappy uses the block format of golang/snappy. Fast, moderate ratio.
// The zero value is ready to use.
type Snappy struct{}

var _ Compressor = Snappy{}

func (Snappy) Compress(src []byte) ([]byte, error) { return snappy.Encode(nil, src), nil }
func (Snappy) Decompress(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}
func (Snappy) Name() string { return "snappy" }
