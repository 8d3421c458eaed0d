package cachefront

import "time"

// CallOption tunes a single operation.
type CallOption func(*callOptions)

type callOptions struct {
	ttl     time.Duration
	baseKey string
}

// WithTTL overrides the default expiration for this write.
func WithTTL(d time.Duration) CallOption {
	return func(o *callOptions) { o.ttl = d }
}

// WithBaseKey prefixes the key with base instead of Options.KeyPrefix.
func WithBaseKey(base string) CallOption {
	return func(o *callOptions) { o.baseKey = base }
}

func collect(opts []CallOption) callOptions {
	var o callOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
