package autoinject

import "go.uber.org/zap"

type options struct {
	catalog *Catalog
	entry   *Module
	filter  Filter
	logger  *zap.Logger
}

// Option configures AddInjectableServices.
type Option func(*options)

// WithCatalog sets the catalog modules are loaded from. Default is used otherwise.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		if c != nil {
			o.catalog = c
		}
	}
}

// WithEntry starts discovery at m instead of the catalog's entry module.
func WithEntry(m *Module) Option {
	return func(o *options) { o.entry = m }
}

// WithAllow restricts scanning to modules under the given name prefixes.
func WithAllow(prefixes ...string) Option {
	return func(o *options) { o.filter.Allow = append(o.filter.Allow, prefixes...) }
}

// WithDeny skips modules whose name contains any of the given fragments.
func WithDeny(fragments ...string) Option {
	return func(o *options) { o.filter.Deny = append(o.filter.Deny, fragments...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{catalog: Default, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
