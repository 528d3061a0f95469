// SPDX-License-Identifier: MIT
package querystring

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/querystring/lexer"
)

type (
	// Config defines configuration options for the Decode & Encode operations.
	Config struct {
		// Logger for debug messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger

		// Delimiter separates the segments of a query string, defaults to "&".
		Delimiter string

		// MaxDepth limits the bracket nesting of a segment, 0 disables the limit.
		MaxDepth int
		// MaxIndex limits explicit List indices, defaults to DefaultMaxIndex; 0 disables the limit.
		//
		// `a[n]=x` allocates n+1 List slots, disabling the limit exposes untrusted input to large
		// allocations.
		MaxIndex int

		// PoolSize is the number of workers used by DecodeAll & EncodeAll.
		PoolSize int

		Debug bool
	}

	// Option defines the Config functional option type.
	Option func(*Config)
)

// DefaultMaxIndex is the default List index limit.
const DefaultMaxIndex = 1 << 16

var fLogger logrus.FieldLogger = logrus.New()

// SetLogger configures the default logrus.FieldLogger for the package.
func SetLogger(l logrus.FieldLogger) { fLogger = l }

// DefaultConfig obtains the package's default Config.
func DefaultConfig() *Config {
	return &Config{
		Logger:    fLogger,
		Delimiter: lexer.DefaultDelimiter,
		MaxIndex:  DefaultMaxIndex,
		PoolSize:  runtime.GOMAXPROCS(0),
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = fLogger
	}
	if c.Delimiter == "" {
		c.Delimiter = lexer.DefaultDelimiter
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	if c.MaxIndex < 0 {
		c.MaxIndex = 0
	}
	if c.PoolSize < 1 {
		c.PoolSize = runtime.GOMAXPROCS(0)
	}
}

// WithConfig replaces the Config wholesale, later options still apply.
func WithConfig(cfg Config) Option { return func(c *Config) { *c = cfg } }

// WithDelimiter configures the segment delimiter.
func WithDelimiter(delimiter string) Option { return func(c *Config) { c.Delimiter = delimiter } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(c *Config) { c.Logger = logger } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Config) { c.Debug = debug } }

// WithMaxDepth configures the bracket nesting limit.
func WithMaxDepth(depth int) Option { return func(c *Config) { c.MaxDepth = depth } }

// WithMaxIndex configures the List index limit.
func WithMaxIndex(index int) Option { return func(c *Config) { c.MaxIndex = index } }

// WithPoolSize configures the worker count of the batch operations.
func WithPoolSize(size int) Option { return func(c *Config) { c.PoolSize = size } }

func newConfig(opts []Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.Validate()

	return cfg
}

func (c *Config) lexerOptions() []lexer.Option {
	return []lexer.Option{
		lexer.WithDelimiter(c.Delimiter),
		lexer.WithLogger(c.Logger),
		lexer.WithDebug(c.Debug),
	}
}
