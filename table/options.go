package table

import (
	"log/slog"

	"github.com/arloliu/ptbin/format"
	"github.com/arloliu/ptbin/internal/options"
)

// Config holds the settings used to open a table.
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

// Option represents a functional option for configuring how a table is opened.
type Option = options.Option[*Config]

// WithFormat sets the record layout of the table. The default is format.Default.
//
// Returns an ErrInvalidFormat error from Open when the layout is unusable.
func WithFormat(f format.Format) Option {
	return options.New(func(c *Config) error {
		if err := f.Validate(); err != nil {
			return err
		}
		c.format = f

		return nil
	})
}

// WithLogger sets the logger used for table diagnostics. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMmap maps the table read-only into memory instead of issuing a pread per record.
//
// Mapping pays off when many narrow ranges are extracted from the same table
// within one process. Empty files are never mapped.
func WithMmap(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.mmap = enabled
	})
}

// WithSequentialHint advises the kernel that records will be read in increasing
// offset order. It is a no-op on platforms without posix_fadvise.
func WithSequentialHint(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.sequential = enabled
	})
}
