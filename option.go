package hod

import "log/slog"

// WithHeaderNames provides the header-derived column name list, normally
// produced by the I/O layer from the first line of the source. Registration
// ordinals are checked against its length and unnamed columns take their
// name from it.
func WithHeaderNames(names []string) Option {
	return func(cfg config) {
		cfg.headerNames = names
	}
}

// WithTimeFormat sets the session-wide default layout for offset-aware
// time columns. A per-column layout registered with AddColumnWithFormat
// still takes priority.
func WithTimeFormat(layout string) Option {
	return func(cfg config) {
		cfg.timeFormat = layout
	}
}

// WithTimestampFormat sets the session-wide default layout for offset-aware
// timestamp columns. A per-column layout registered with
// AddColumnWithFormat still takes priority.
func WithTimestampFormat(layout string) Option {
	return func(cfg config) {
		cfg.timestampFormat = layout
	}
}

// WithLogger attaches a logger to the session boundary. Registration and
// row failures are logged at debug level; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(cfg config) {
		if l != nil {
			cfg.log = l
		}
	}
}
