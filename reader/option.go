package reader

// WithDelimiter sets the literal field delimiter used to split each line.
// Default ",".
func WithDelimiter(delim string) Option {
	return func(cfg config) {
		if delim != "" {
			cfg.delimiter = delim
		}
	}
}

// WithHeaderLine treats the first line of the source as column names. The
// names are injected into the session before any column is registered.
func WithHeaderLine() Option {
	return func(cfg config) {
		cfg.headerLine = true
	}
}

// WithBufferSize sets the initial line buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(cfg config) {
		if n > 0 {
			cfg.bufSize = n
		}
	}
}
