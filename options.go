package dict

import "log/slog"

type options struct {
	initialSize      uint64
	resizeDisabled   bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures constructor behavior of New.
//
// Options primarily exist to avoid exploding the API surface with
// constructor variants.
type Option func(*options)

// WithInitialSize pre-sizes table 0 so the first inserts do not trigger a
// resize. size is rounded up to the next power of two, with a minimum of
// InitialSize. A value of 0 keeps allocation deferred to the first write.
func WithInitialSize(size uint64) Option {
	return func(o *options) {
		o.initialSize = size
	}
}

// WithResizeDisabled suppresses automatic growth on insert. Callers use this
// while a point-in-time snapshot of the owning store is being written, to
// avoid doubling the memory footprint through copy-on-write pages.
//
// Growth is still forced when the load ratio exceeds ForceResizeRatio, and
// explicit Expand calls remain available. The flag can be flipped at runtime
// with EnableResize and DisableResize.
func WithResizeDisabled() Option {
	return func(o *options) {
		o.resizeDisabled = true
	}
}

// WithMetricsCollector configures a metrics collector for monitoring resize
// and rehash activity. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &dict.BasicMetricsCollector{}
//	d := dict.New[string, string](nil, nil, dict.WithMetricsCollector(metrics))
//	// ... use d ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for resize and rehash events.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
