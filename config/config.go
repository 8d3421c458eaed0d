// Package config loads cachefront settings from YAML files and environment
// variables and turns them into cachefront.Options.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/cachefront"
	"github.com/unkn0wn-root/cachefront/codec"
	"github.com/unkn0wn-root/cachefront/compress"
)

// DefaultEnvPrefix is the prefix FromEnv uses when none is given.
const DefaultEnvPrefix = "CACHE"

// Config is the file/env representation of cachefront.Options.
type Config struct {
	Addr      string `yaml:"addr"`      // empty => bypass
	DB        int    `yaml:"db"`
	Logging   bool   `yaml:"logging"`
	KeyPrefix string `yaml:"key_prefix"`
	// DefaultExpirationSeconds overrides the 10 minute fallback TTL; 0 keeps it.
	DefaultExpirationSeconds int `yaml:"default_expiration_seconds"`

	EnableCompression bool   `yaml:"enable_compression"`
	Compression       string `yaml:"compression"` // snappy, lz4, zstd, gzip
	Serializer        string `yaml:"serializer"`  // json, msgpack, cbor, protobuf
	// MaxValueBytes rejects fetched payloads larger than this on decode; 0 disables.
	MaxValueBytes int `yaml:"max_value_bytes"`
}

// Load reads a YAML file into a Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, c.Validate()
}

// FromEnv builds a Config from environment variables named PREFIX_ADDR,
// PREFIX_DB, PREFIX_LOGGING, PREFIX_KEY_PREFIX,
// PREFIX_DEFAULT_EXPIRATION_SECONDS, PREFIX_ENABLE_COMPRESSION,
// PREFIX_COMPRESSION, PREFIX_SERIALIZER and PREFIX_MAX_VALUE_BYTES.
// An empty prefix means DefaultEnvPrefix.
func FromEnv(prefix string) (Config, error) {
	var c Config
	if err := c.ApplyEnv(prefix); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyEnv overlays the variables FromEnv reads onto c. Unset variables
// leave the corresponding field untouched.
func (c *Config) ApplyEnv(prefix string) error {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	e := env{prefix: prefix}

	e.str("ADDR", &c.Addr)
	e.str("KEY_PREFIX", &c.KeyPrefix)
	e.str("COMPRESSION", &c.Compression)
	e.str("SERIALIZER", &c.Serializer)
	e.integer("DB", &c.DB)
	e.integer("DEFAULT_EXPIRATION_SECONDS", &c.DefaultExpirationSeconds)
	e.integer("MAX_VALUE_BYTES", &c.MaxValueBytes)
	e.boolean("LOGGING", &c.Logging)
	e.boolean("ENABLE_COMPRESSION", &c.EnableCompression)

	if e.err != nil {
		return e.err
	}
	return c.Validate()
}

// Validate checks ranges and that compressor and serializer names are known.
func (c Config) Validate() error {
	if c.DB < 0 {
		return fmt.Errorf("config: db must not be negative, got %d", c.DB)
	}
	if c.DefaultExpirationSeconds < 0 {
		return fmt.Errorf("config: default_expiration_seconds must not be negative, got %d", c.DefaultExpirationSeconds)
	}
	if c.MaxValueBytes < 0 {
		return fmt.Errorf("config: max_value_bytes must not be negative, got %d", c.MaxValueBytes)
	}
	if _, err := compress.ByName(c.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := codec.ByName(c.Serializer); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Options converts c into cachefront.Options. Logger and Hooks are left for
// the caller to set.
func (c Config) Options() (cachefront.Options, error) {
	if err := c.Validate(); err != nil {
		return cachefront.Options{}, err
	}
	opts := cachefront.Options{
		Addr:              c.Addr,
		DB:                c.DB,
		Logging:           c.Logging,
		KeyPrefix:         c.KeyPrefix,
		DefaultTTL:        time.Duration(c.DefaultExpirationSeconds) * time.Second,
		EnableCompression: c.EnableCompression,
	}
	if c.EnableCompression {
		comp, err := compress.ByName(c.Compression)
		if err != nil {
			return cachefront.Options{}, fmt.Errorf("config: %w", err)
		}
		opts.Compressor = comp
	}
	ser, err := codec.ByName(c.Serializer)
	if err != nil {
		return cachefront.Options{}, fmt.Errorf("config: %w", err)
	}
	if c.MaxValueBytes > 0 {
		ser = codec.Limit{Inner: ser, MaxDecode: c.MaxValueBytes}
	}
	opts.Serializer = ser
	return opts, nil
}

// env reads PREFIX_NAME variables and keeps the first parse error.
type env struct {
	prefix string
	err    error
}

func (e *env) lookup(name string) (string, bool) {
	return os.LookupEnv(e.prefix + "_" + name)
}

func (e *env) str(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e *env) integer(name string, dst *int) {
	v, ok := e.lookup(name)
	if !ok || e.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("config: %s_%s: %w", e.prefix, name, err)
		return
	}
	*dst = n
}

func (e *env) boolean(name string, dst *bool) {
	v, ok := e.lookup(name)
	if !ok || e.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("config: %s_%s: %w", e.prefix, name, err)
		return
	}
	*dst = b
}
