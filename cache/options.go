package cache

import (
	"log/slog"
	"time"

	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/metric"
)

// DefaultTTL is the fallback expiry applied when Set is called with a
// zero TTL.
const DefaultTTL = time.Hour

// Option configures layered cache behavior using the functional options
// pattern.
type Option func(*layeredOptions)

// layeredOptions holds internal configuration for Layered instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type layeredOptions struct {
	// metricsReg is optional - if provided, cache stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string

	// dispatcher receives flush notifications
	dispatcher hook.Dispatcher

	// namespace prefixes every key handed to the backing store
	namespace string

	// defaultTTL replaces zero TTLs on Set
	defaultTTL time.Duration

	logger *slog.Logger
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry, prefix string) Option {
	return func(opts *layeredOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithDispatcher sets the dispatcher that receives flush and invalidation
// notifications. Defaults to a no-op dispatcher.
func WithDispatcher(d hook.Dispatcher) Option {
	return func(opts *layeredOptions) {
		if d != nil {
			opts.dispatcher = d
		}
	}
}

// WithNamespace sets the key namespace prepended to every key before it
// reaches the backing store.
func WithNamespace(namespace string) Option {
	return func(opts *layeredOptions) {
		if namespace != "" {
			opts.namespace = namespace
		}
	}
}

// WithDefaultTTL sets the TTL applied when Set is called with zero.
// If ttl is <= 0, this option is ignored.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(opts *layeredOptions) {
		if ttl > 0 {
			opts.defaultTTL = ttl
		}
	}
}

// WithLogger sets the logger used for store failures and invalidation
// reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *layeredOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// applyOptions applies functional options to create final cache configuration.
func applyOptions(options ...Option) *layeredOptions {
	opts := &layeredOptions{
		dispatcher: hook.Noop{},
		namespace:  "schemagraph",
		defaultTTL: DefaultTTL,
		logger:     slog.Default(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
