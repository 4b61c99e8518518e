package di

import (
	"fmt"
	"reflect"
)

// Global is a process-wide container for single-service programs.
var Global = NewContainer()

func MustRegister(ctor any, scope LifetimeScope) { Global.MustRegister(ctor, scope) }

func MustRegisterAs(ctor any, iface any, scope LifetimeScope) {
	Global.MustRegisterAs(ctor, iface, scope)
}

func MustRegisterInstance(instance any, scope LifetimeScope) {
	Global.MustRegisterInstance(instance, scope)
}

func MustRegisterInstanceAs(instance any, iface any, scope LifetimeScope) {
	Global.MustRegisterInstanceAs(instance, iface, scope)
}

func MustResolve(out any) { Global.MustResolve(out) }

// GlobalNewScope creates a scope on the Global container.
func GlobalNewScope() *Scope { return Global.NewScope() }

// GlobalReset clears the Global container (tests).
func GlobalReset() { Global.Reset() }

// Get resolves T from the Global container.
func Get[T any]() (T, error) {
	return Resolve[T](Global)
}

// MustGet resolves T from the Global container and panics on error.
func MustGet[T any]() T {
	inst, err := Get[T]()
	if err != nil {
		panic(err)
	}
	return inst
}

// Resolve resolves T from c.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	svcType := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := c.resolve(svcType, make(map[reflect.Type]bool))
	if err != nil {
		return zero, fmt.Errorf("di: get %s: %w", svcType, err)
	}
	return typed[T](svcType, instance)
}

// ScopeGet resolves T from s, honoring Scoped lifetimes.
func ScopeGet[T any](s *Scope) (T, error) {
	var zero T
	svcType := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := s.resolve(svcType, make(map[reflect.Type]bool))
	if err != nil {
		return zero, fmt.Errorf("di: scope get %s: %w", svcType, err)
	}
	return typed[T](svcType, instance)
}

// ScopeMustGet is ScopeGet that panics on error.
func ScopeMustGet[T any](s *Scope) T {
	inst, err := ScopeGet[T](s)
	if err != nil {
		panic(err)
	}
	return inst
}

// typed converts a resolved value to T.
func typed[T any](svcType reflect.Type, instance reflect.Value) (T, error) {
	var zero T
	it := instance.Type()

	if svcType.Kind() == reflect.Interface {
		if it.Implements(svcType) {
			return instance.Interface().(T), nil
		}
		// value type whose pointer implements the interface
		if it.Kind() != reflect.Ptr && reflect.PointerTo(it).Implements(svcType) {
			var iface any
			if instance.CanAddr() {
				iface = instance.Addr().Interface()
			} else {
				ptr := reflect.New(it)
				ptr.Elem().Set(instance)
				iface = ptr.Interface()
			}
			return iface.(T), nil
		}
		return zero, fmt.Errorf("%w: %s to interface %s", ErrTypeConvertFailed, it, svcType)
	}

	if it.AssignableTo(svcType) {
		return instance.Interface().(T), nil
	}
	if it.ConvertibleTo(svcType) {
		return instance.Convert(svcType).Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: %s to %s", ErrTypeConvertFailed, it, svcType)
}
