package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Scope caches Scoped instances for one unit of work. Scopes never share Scoped instances,
// while Singletons are shared with the root container.
type Scope struct {
	root       *Container
	scopedInst map[reflect.Type]reflect.Value
	mu         sync.RWMutex
}

// NewScope creates a scope bound to c.
func (c *Container) NewScope() *Scope {
	return &Scope{
		root:       c,
		scopedInst: make(map[reflect.Type]reflect.Value),
	}
}

// Container returns the root container of the scope.
func (s *Scope) Container() *Container { return s.root }

// Resolve fills out with the service registered for *out's type, honoring Scoped lifetimes.
func (s *Scope) Resolve(out any) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.IsNil() {
		return ErrInvalidOutPtr
	}
	instance, err := s.resolve(outVal.Elem().Type(), make(map[reflect.Type]bool))
	if err != nil {
		return err
	}
	outVal.Elem().Set(instance)
	return nil
}

func (s *Scope) cached(svcType reflect.Type) (reflect.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.scopedInst[svcType]
	return inst, ok && inst.IsValid()
}

func (s *Scope) store(svcType reflect.Type, inst reflect.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopedInst[svcType] = inst
}

func (s *Scope) resolve(svcType reflect.Type, track map[reflect.Type]bool) (reflect.Value, error) {
	def, exists := s.root.definition(svcType)
	if !exists {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrServiceNotRegistered, svcType)
	}

	if track[svcType] {
		return reflect.Value{}, fmt.Errorf("%w: chain contains %s", ErrResolveCircularDependency, svcType)
	}
	track[svcType] = true
	defer delete(track, svcType)

	if def.isInstance {
		if def.scope == Scoped {
			if inst, ok := s.cached(svcType); ok {
				return inst, nil
			}
			s.store(svcType, def.instance)
		}
		return def.instance, nil
	}

	switch def.scope {
	case Singleton:
		if inst, ok := s.root.cachedSingleton(def); ok {
			return inst, nil
		}
	case Scoped:
		if inst, ok := s.cached(svcType); ok {
			return inst, nil
		}
	}

	// Singletons resolve their dependencies from the root so no scope's instances are captured.
	lookup := s.resolve
	if def.scope == Singleton {
		lookup = s.root.resolve
	}
	instance, err := s.root.construct(def, track, lookup)
	if err != nil {
		return reflect.Value{}, err
	}

	switch def.scope {
	case Scoped:
		s.store(svcType, instance)
	case Singleton:
		instance = s.root.storeSingleton(def, instance)
	}
	return instance, nil
}

// Reset drops every Scoped instance cached by this scope.
func (s *Scope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopedInst = make(map[reflect.Type]reflect.Value)
}
