// Package di is a reflection-based container with Transient, Singleton and Scoped lifetimes.
package di

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// DuplicatePolicy decides what happens when a service type is registered twice.
type DuplicatePolicy int

const (
	RejectDuplicates DuplicatePolicy = iota // second registration fails with ErrRegisterDuplicate
	ReplaceExisting                         // second registration replaces the first (last wins)
)

// serviceDef stores registration metadata, cached constructor parameter types and the singleton instance.
type serviceDef struct {
	svcType    reflect.Type   // registered service type (interface or concrete)
	implType   reflect.Type   // constructor result or instance type
	scope      LifetimeScope  // lifetime
	instance   reflect.Value  // singleton cache or pre-registered instance
	ctor       reflect.Value  // constructor (zero for instance registrations)
	ctorType   reflect.Type   // constructor type (nil for instance registrations)
	once       sync.Once      // singleton initialization
	paramTypes []reflect.Type // cached constructor parameter types
	paramOnce  sync.Once      // parameter types are parsed once
	isInstance bool           // true: use instance, never call ctor
}

// Container is the root registry. All methods are safe for concurrent use.
type Container struct {
	services      map[reflect.Type]*serviceDef            // default (unnamed) services
	namedServices map[string]map[reflect.Type]*serviceDef // name -> type -> definition
	policy        DuplicatePolicy
	logger        *zap.Logger
	mu            sync.RWMutex
}

// Option configures a Container.
type Option func(*Container)

// WithDuplicatePolicy sets how duplicate service types are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *Container) { c.policy = p }
}

// WithLogger attaches a logger for registration events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewContainer creates an empty container.
func NewContainer(opts ...Option) *Container {
	c := &Container{
		services:      make(map[reflect.Type]*serviceDef),
		namedServices: make(map[string]map[reflect.Type]*serviceDef),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy reports the container's duplicate registration policy.
func (c *Container) Policy() DuplicatePolicy { return c.policy }

// Register registers ctor under its own return type.
func (c *Container) Register(ctor any, scope LifetimeScope) error {
	d, err := Describe(nil, ctor, scope)
	if err != nil {
		return err
	}
	return c.Add(d)
}

// RegisterAs registers ctor under interfaceType, given as a typed nil pointer: (*IService)(nil).
// A pointer to a concrete type registers under that pointer type.
func (c *Container) RegisterAs(ctor any, interfaceType any, scope LifetimeScope) error {
	svcType, err := targetTypeOf(interfaceType)
	if err != nil {
		return err
	}
	d, err := Describe(svcType, ctor, scope)
	if err != nil {
		return err
	}
	return c.Add(d)
}

// Add registers a descriptor, honoring the container's DuplicatePolicy.
func (c *Container) Add(d ServiceDescriptor) error {
	if d.ServiceType == nil || !d.ctor.IsValid() {
		// descriptors built by hand rather than through Describe
		checked, err := Describe(d.ServiceType, d.Constructor, d.Lifetime)
		if err != nil {
			return err
		}
		d = checked
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, exists := c.services[d.ServiceType]; exists {
		if c.policy != ReplaceExisting {
			return fmt.Errorf("%w: %s", ErrRegisterDuplicate, d.ServiceType)
		}
		c.logger.Debug("replacing service registration",
			zap.Stringer("service", d.ServiceType),
			zap.Stringer("previous", prev.implType),
			zap.Stringer("implementation", d.ImplementationType),
		)
	}

	c.services[d.ServiceType] = &serviceDef{
		svcType:  d.ServiceType,
		implType: d.ImplementationType,
		scope:    d.Lifetime,
		ctor:     d.ctor,
		ctorType: d.ctor.Type(),
	}
	c.logger.Debug("service registered",
		zap.Stringer("service", d.ServiceType),
		zap.Stringer("implementation", d.ImplementationType),
		zap.Stringer("lifetime", d.Lifetime),
	)
	return nil
}

// RegisterInstance registers a pre-built instance under its own type.
// Transient is rejected: an existing instance cannot be recreated per resolution.
func (c *Container) RegisterInstance(instance any, scope LifetimeScope) error {
	return c.registerInstance("", instance, nil, scope)
}

// RegisterInstanceAs registers a pre-built instance under interfaceType.
func (c *Container) RegisterInstanceAs(instance any, interfaceType any, scope LifetimeScope) error {
	if interfaceType == nil {
		return ErrInvalidInterfaceType
	}
	return c.registerInstance("", instance, interfaceType, scope)
}

// RegisterInstanceNamed registers a named instance, allowing several instances of one type.
func (c *Container) RegisterInstanceNamed(name string, instance any, scope LifetimeScope) error {
	if name == "" {
		return ErrEmptyName
	}
	return c.registerInstance(name, instance, nil, scope)
}

// RegisterInstanceAsNamed registers a named instance under interfaceType.
func (c *Container) RegisterInstanceAsNamed(name string, instance any, interfaceType any, scope LifetimeScope) error {
	if name == "" {
		return ErrEmptyName
	}
	if interfaceType == nil {
		return ErrInvalidInterfaceType
	}
	return c.registerInstance(name, instance, interfaceType, scope)
}

func (c *Container) registerInstance(name string, instance any, interfaceType any, scope LifetimeScope) error {
	if scope == Transient {
		return ErrTransientInstance
	}
	if instance == nil {
		return ErrNilInstance
	}

	instVal := reflect.ValueOf(instance)
	implType := instVal.Type()

	svcType := implType
	if interfaceType != nil {
		target, err := targetTypeOf(interfaceType)
		if err != nil {
			return err
		}
		if err := checkCompatible(implType, target); err != nil {
			return err
		}
		svcType = target
	}

	def := &serviceDef{
		svcType:    svcType,
		implType:   implType,
		scope:      scope,
		instance:   instVal,
		isInstance: true,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		if _, exists := c.services[svcType]; exists && c.policy != ReplaceExisting {
			return fmt.Errorf("%w: %s", ErrRegisterDuplicate, svcType)
		}
		c.services[svcType] = def
		return nil
	}

	if c.namedServices[name] == nil {
		c.namedServices[name] = make(map[reflect.Type]*serviceDef)
	}
	if _, exists := c.namedServices[name][svcType]; exists && c.policy != ReplaceExisting {
		return fmt.Errorf("%w: name %q, type %s", ErrRegisterDuplicate, name, svcType)
	}
	c.namedServices[name][svcType] = def
	return nil
}

// targetTypeOf turns (*IService)(nil) into IService and (*Impl)(nil) into *Impl.
func targetTypeOf(interfaceType any) (reflect.Type, error) {
	if interfaceType == nil {
		return nil, ErrInvalidInterfaceType
	}
	t := reflect.TypeOf(interfaceType)
	if t.Kind() != reflect.Ptr {
		return nil, ErrInvalidInterfaceType
	}
	if t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

// checkCompatible reports whether implType can be served as svcType.
func checkCompatible(implType, svcType reflect.Type) error {
	if svcType.Kind() == reflect.Interface {
		if !implType.Implements(svcType) {
			return fmt.Errorf("%w: %s does not implement %s", ErrNotImplemented, implType, svcType)
		}
		return nil
	}
	if !isTypeCompatible(implType, svcType) {
		return fmt.Errorf("%w: %s cannot be converted to %s", ErrNotImplemented, implType, svcType)
	}
	return nil
}

// isTypeCompatible checks assignability, convertibility and pointer/value pairs.
func isTypeCompatible(implType, targetType reflect.Type) bool {
	if implType.AssignableTo(targetType) {
		return true
	}
	if implType.ConvertibleTo(targetType) {
		return true
	}
	// value implementation, pointer target
	if implType.Kind() != reflect.Ptr && reflect.PointerTo(implType).AssignableTo(targetType) {
		return true
	}
	// pointer implementation, value target
	if implType.Kind() == reflect.Ptr && implType.Elem().AssignableTo(targetType) {
		return true
	}
	return false
}

// Reset clears all registrations and cached instances.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = make(map[reflect.Type]*serviceDef)
	c.namedServices = make(map[string]map[reflect.Type]*serviceDef)
}
