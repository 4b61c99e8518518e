package di

import (
	"fmt"
	"reflect"
	"sort"
)

// ServiceDescriptor binds a service type to the constructor that builds it.
type ServiceDescriptor struct {
	ServiceType        reflect.Type
	ImplementationType reflect.Type
	Lifetime           LifetimeScope
	Constructor        any

	ctor reflect.Value
}

// String renders the descriptor as "service => implementation (lifetime)".
func (d ServiceDescriptor) String() string {
	return fmt.Sprintf("%s => %s (%s)", d.ServiceType, d.ImplementationType, d.Lifetime)
}

// Describe validates ctor and builds a descriptor registering it under serviceType.
// A nil serviceType registers the constructor under its own return type.
func Describe(serviceType reflect.Type, ctor any, lifetime LifetimeScope) (ServiceDescriptor, error) {
	if ctor == nil {
		return ServiceDescriptor{}, ErrNotFunc
	}
	ctorVal := reflect.ValueOf(ctor)
	ctorType := ctorVal.Type()
	if ctorType.Kind() != reflect.Func {
		return ServiceDescriptor{}, ErrNotFunc
	}
	if n := ctorType.NumOut(); n != 1 {
		return ServiceDescriptor{}, fmt.Errorf("%w, got %d", ErrNoReturn, n)
	}
	implType := ctorType.Out(0)
	if implType.Kind() == reflect.Interface {
		return ServiceDescriptor{}, fmt.Errorf("%w, got interface %s", ErrNotConcreteType, implType)
	}
	if lifetime < Transient || lifetime > Scoped {
		return ServiceDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownLifetime, lifetime)
	}

	svcType := implType
	if serviceType != nil {
		if err := checkAssignable(implType, serviceType); err != nil {
			return ServiceDescriptor{}, err
		}
		svcType = serviceType
	}

	return ServiceDescriptor{
		ServiceType:        svcType,
		ImplementationType: implType,
		Lifetime:           lifetime,
		Constructor:        ctor,
		ctor:               ctorVal,
	}, nil
}

// checkAssignable reports whether constructor results of implType can be stored
// as svcType without conversion. Constructed values are used as returned, so the
// pointer/value and convertible pairs accepted for instances are refused here.
func checkAssignable(implType, svcType reflect.Type) error {
	if svcType.Kind() == reflect.Interface {
		if !implType.Implements(svcType) {
			return fmt.Errorf("%w: %s does not implement %s", ErrNotImplemented, implType, svcType)
		}
		return nil
	}
	if !implType.AssignableTo(svcType) {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrNotImplemented, implType, svcType)
	}
	return nil
}

// Descriptors returns the constructor registrations sorted by service type name.
// Instance registrations are not included.
func (c *Container) Descriptors() []ServiceDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ServiceDescriptor, 0, len(c.services))
	for _, def := range c.services {
		if def.isInstance {
			continue
		}
		out = append(out, ServiceDescriptor{
			ServiceType:        def.svcType,
			ImplementationType: def.implType,
			Lifetime:           def.scope,
			Constructor:        def.ctor.Interface(),
			ctor:               def.ctor,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ServiceType.String() < out[j].ServiceType.String()
	})
	return out
}

// IsRegistered reports whether serviceType has a default (unnamed) registration.
func (c *Container) IsRegistered(serviceType reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[serviceType]
	return ok
}
