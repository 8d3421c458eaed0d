package cachefront

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An operation ran in bypass mode (no store configured).
	Bypassed(op string)

	// A value could not be compressed and was written uncompressed.
	CompressFailed(storageKey string, err error)
	// A fetched value could not be decompressed and was treated as a miss.
	DecompressFailed(storageKey string, err error)

	// Batch compression failed; all n values were written uncompressed.
	BatchCompressFailed(n int, err error)
	// Batch decompression failed; a read of n keys collapsed to empty.
	BatchDecompressFailed(n int, err error)

	// Payload reports sizes of a value written or read.
	// raw is the serialized size, stored the size exchanged with the store.
	Payload(op, storageKey string, raw, stored int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Bypassed(string)                  {}
func (NopHooks) CompressFailed(string, error)     {}
func (NopHooks) DecompressFailed(string, error)   {}
func (NopHooks) BatchCompressFailed(int, error)   {}
func (NopHooks) BatchDecompressFailed(int, error) {}
func (NopHooks) Payload(string, string, int, int) {}
