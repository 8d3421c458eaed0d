package cachefront

import (
	"errors"
	"strings"
	"time"

	"github.com/unkn0wn-root/cachefront/codec"
	"github.com/unkn0wn-root/cachefront/compress"
	"github.com/unkn0wn-root/cachefront/store"
	"github.com/unkn0wn-root/cachefront/store/redis"
	"github.com/unkn0wn-root/cachefront/store/ristretto"
)

// MemoryAddr selects the in-process ristretto store.
const MemoryAddr = "memory://"

const defaultTTL = 10 * time.Minute

// Options configure a Cache. They are read once by New.
// Leave both Addr and Store empty to run in bypass mode.
type Options struct {
	Addr string // host:port, redis:// URL, or MemoryAddr; empty => bypass
	DB   int    // logical database for Addr; default 0

	Logging           bool          // emit debug traces through Logger
	KeyPrefix         string        // global key prefix; overridden by WithBaseKey
	DefaultTTL        time.Duration // 0 => 10m
	EnableCompression bool

	Compressor compress.Compressor // nil => Snappy (only used with EnableCompression)
	Serializer codec.Serializer    // nil => JSON
	Store      store.Store         // pre-built store; takes precedence over Addr

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

func New(opts Options) (*Cache, error) {
	if opts.DB < 0 {
		return nil, errors.New("cachefront: DB must not be negative")
	}
	if opts.DefaultTTL < 0 {
		return nil, errors.New("cachefront: DefaultTTL must not be negative")
	}

	c := &Cache{
		prefix:     opts.KeyPrefix,
		logging:    opts.Logging,
		defaultTTL: coalesce[time.Duration](opts.DefaultTTL, defaultTTL),
		ser:        coalesce[codec.Serializer](opts.Serializer, codec.JSON{}),
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	if opts.EnableCompression {
		c.comp = coalesce[compress.Compressor](opts.Compressor, compress.Snappy{})
	}

	switch {
	case opts.Store != nil:
		c.store = opts.Store
	case opts.Addr == "":
		// bypass for the lifetime of c
	case strings.HasPrefix(opts.Addr, MemoryAddr):
		c.store = ristretto.New(ristretto.Config{})
	default:
		r, err := redis.New(redis.Config{Addr: opts.Addr, DB: opts.DB})
		if err != nil {
			return nil, err
		}
		c.store = r
	}
	return c, nil
}
