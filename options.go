package ptbin

import (
	"log/slog"

	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/options"
	"github.com/arloliu/ptbin/table"
)

// Config holds Extractor settings.
type Config struct {
	format     format.Format
	logger     *slog.Logger
	mmap       bool
	sequential bool
}

func newConfig() *Config {
	return &Config{
		format: format.Default,
		logger: slog.Default(),
	}
}

// tableOptions translates the extractor settings into table.Open options.
func (c *Config) tableOptions() []table.Option {
	return []table.Option{
		table.WithFormat(c.format),
		table.WithLogger(c.logger),
		table.WithMmap(c.mmap),
		table.WithSequentialHint(c.sequential),
	}
}

// Option represents a functional option for configuring an Extractor.
type Option = options.Option[*Config]

// WithFormat sets the table layout. The default is format.Default.
func WithFormat(f format.Format) Option {
	return options.New(func(c *Config) error {
		if err := f.Validate(); err != nil {
			return err
		}
		c.format = f

		return nil
	})
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMmap serves records from a read-only memory mapping of the table.
func WithMmap(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.mmap = enabled
	})
}

// WithSequentialHint advises the kernel that the table is read front to back.
func WithSequentialHint(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.sequential = enabled
	})
}
