package autoinject

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject/di"
)

// AddInjectableServices registers every marked service reachable from the
// entry module into c and returns c.
//
// Calling it twice adds every descriptor again; the container's duplicate
// policy decides whether that fails or replaces. The first error stops the
// pass and descriptors added before it stay registered.
func AddInjectableServices(c *di.Container, opts ...Option) (*di.Container, error) {
	if c == nil {
		return nil, ErrNilContainer
	}
	o := newOptions(opts)

	entry := o.entry
	if entry == nil {
		var err error
		if entry, err = o.catalog.Entry(); err != nil {
			return c, err
		}
	}
	if entry == nil {
		o.logger.Warn("no entry module, nothing to register")
		return c, nil
	}

	modules, err := Discover(entry, o.catalog)
	if err != nil {
		return c, err
	}
	for _, m := range modules {
		if !o.filter.Allows(m.Name()) {
			o.logger.Debug("module skipped", zap.String("module", m.Name()))
			continue
		}
		o.logger.Debug("module discovered", zap.String("module", m.Name()))
	}

	candidates, err := Scan(modules, o.filter)
	if err != nil {
		return c, err
	}

	for _, cand := range candidates {
		d, err := Describe(cand)
		if err != nil {
			return c, err
		}
		if err := c.Add(d); err != nil {
			return c, fmt.Errorf("autoinject: add %s from %s: %w", d, cand.Module, err)
		}
		o.logger.Debug("service added",
			zap.String("module", cand.Module),
			zap.Stringer("descriptor", d),
		)
	}

	o.logger.Info("injectable services registered",
		zap.String("entry", entry.Name()),
		zap.Int("modules", len(modules)),
		zap.Int("services", len(candidates)),
	)
	return c, nil
}

// MustAddInjectableServices is AddInjectableServices that panics on error.
func MustAddInjectableServices(c *di.Container, opts ...Option) *di.Container {
	c, err := AddInjectableServices(c, opts...)
	if err != nil {
		panic(fmt.Sprintf("autoinject: register services failed: %v", err))
	}
	return c
}
