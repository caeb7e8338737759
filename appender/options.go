package appender

import "github.com/pulsedb/pulsedb/internal/options"

// Config collects the recognized open_append options from spec.md §4.6:
// have_candle, depth, scale, chunk_size, and nosync (inverted here as
// Sync, defaulting to true).
type Config struct {
	HaveCandle bool
	Depth      int
	Scale      int64
	ChunkSize  int // seconds
	Sync       bool
}

func defaultConfig() *Config {
	return &Config{
		HaveCandle: true,
		Depth:      1,
		Scale:      100,
		ChunkSize:  300,
		Sync:       true,
	}
}

// Option configures a new or reopened Appender.
type Option = options.Option[*Config]

// WithDepth sets the number of quote levels per side (default 1).
func WithDepth(depth int) Option {
	return options.NoError[*Config](func(c *Config) { c.Depth = depth })
}

// WithScale sets the integer price scale (default 100).
func WithScale(scale int64) Option {
	return options.NoError[*Config](func(c *Config) { c.Scale = scale })
}

// WithChunkSize sets the chunk bucket duration in seconds (default 300).
func WithChunkSize(seconds int) Option {
	return options.NoError[*Config](func(c *Config) { c.ChunkSize = seconds })
}

// WithHaveCandle toggles whether the file carries a candle slot (default
// true).
func WithHaveCandle(enabled bool) Option {
	return options.NoError[*Config](func(c *Config) { c.HaveCandle = enabled })
}

// WithNoSync disables fsync on chunk-boundary writes (default: sync).
func WithNoSync() Option {
	return options.NoError[*Config](func(c *Config) { c.Sync = false })
}
