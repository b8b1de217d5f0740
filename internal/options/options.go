// Package options implements the functional options shared by the table reader
// and the extraction engine.
//
// An option mutates a configuration struct and may reject the value it carries:
//
//	func WithFormat(f format.Format) Option {
//	    return options.New(func(c *config) error {
//	        if err := f.Validate(); err != nil {
//	            return err
//	        }
//	        c.format = f
//	        return nil
//	    })
//	}
package options

// Option configures a target of type T, usually a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function to an Option.
type Func[T any] func(T) error

func (f Func[T]) apply(target T) error {
	return f(target)
}

// New returns an option that may reject its value.
func New[T any](fn func(T) error) Option[T] {
	return Func[T](fn)
}

// NoError returns an option that always succeeds.
func NoError[T any](fn func(T)) Option[T] {
	return Func[T](func(target T) error {
		fn(target)
		return nil
	})
}

// Apply runs opts against target in order and returns the first error.
// Nil options are skipped, so a caller can pass a conditional option as is.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if fn, ok := opt.(Func[T]); ok && fn == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
