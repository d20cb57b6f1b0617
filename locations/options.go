package locations

// Options configures Parse and ReadFile.
type Options struct {
	// Strict rejects tokens that are not complete numbers.
	Strict bool

	// Echo, when non-nil, receives every raw line as it is read.
	Echo func(line string)
}

// Option mutates Options.
type Option func(*Options)

// WithStrict makes malformed tokens an error (ErrMalformedRow) instead of
// coercing them.
func WithStrict() Option {
	return func(o *Options) { o.Strict = true }
}

// WithEcho installs a callback invoked with every raw input line.
func WithEcho(fn func(line string)) Option {
	return func(o *Options) { o.Echo = fn }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
