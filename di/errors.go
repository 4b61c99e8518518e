package di

import "errors"

// Container error definitions
var (
	ErrNotFunc                   = errors.New("registration must be a constructor function")
	ErrNoReturn                  = errors.New("constructor must have exactly one return value")
	ErrRegisterDuplicate         = errors.New("service type already registered")
	ErrServiceNotRegistered      = errors.New("service not registered")
	ErrCreateInstanceFailed      = errors.New("failed to create service instance")
	ErrNotConcreteType           = errors.New("constructor return value must be a concrete type")
	ErrResolveCircularDependency = errors.New("circular dependency detected during resolution")
	ErrInvalidInterfaceType      = errors.New("interfaceType must be a nil pointer, e.g. (*IService)(nil)")
	ErrInvalidOutPtr             = errors.New("out must be a non-nil pointer")
	ErrTypeConvertFailed         = errors.New("instance cannot be converted to target type")
	ErrScopedOnRootContainer     = errors.New("scoped services cannot be resolved from the root container, use a Scope")
	ErrTransientInstance         = errors.New("instance registration does not support Transient lifetime")
	ErrNilInstance               = errors.New("registered instance cannot be nil")
	ErrEmptyName                 = errors.New("named registration requires a non-empty name")
	ErrNotImplemented            = errors.New("implementation type is not compatible with service type")
	ErrUnknownLifetime           = errors.New("unknown lifetime")
)
