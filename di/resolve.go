package di

import (
	"fmt"
	"reflect"
)

// lookupFunc resolves a dependency in the caller's context (root container or scope).
type lookupFunc func(svcType reflect.Type, track map[reflect.Type]bool) (reflect.Value, error)

// Resolve fills out, a non-nil pointer, with the service registered for *out's type.
func (c *Container) Resolve(out any) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.IsNil() {
		return ErrInvalidOutPtr
	}
	instance, err := c.resolve(outVal.Elem().Type(), make(map[reflect.Type]bool))
	if err != nil {
		return err
	}
	outVal.Elem().Set(instance)
	return nil
}

// ResolveNamed fills out with the instance registered under name.
func (c *Container) ResolveNamed(name string, out any) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.IsNil() {
		return ErrInvalidOutPtr
	}
	svcType := outVal.Elem().Type()

	c.mu.RLock()
	namedMap, exists := c.namedServices[name]
	var def *serviceDef
	if exists {
		def, exists = namedMap[svcType]
	}
	c.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: name %q, type %s", ErrServiceNotRegistered, name, svcType)
	}
	outVal.Elem().Set(def.instance)
	return nil
}

// ResolveAll fills out, a pointer to a slice, with the default and every named instance of the element type.
func (c *Container) ResolveAll(out any) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.IsNil() {
		return ErrInvalidOutPtr
	}
	sliceType := outVal.Elem().Type()
	if sliceType.Kind() != reflect.Slice {
		return fmt.Errorf("%w: ResolveAll needs a slice pointer, got %s", ErrInvalidOutPtr, sliceType)
	}
	itemType := sliceType.Elem()

	c.mu.RLock()
	defer c.mu.RUnlock()

	results := reflect.MakeSlice(sliceType, 0, 0)
	if def, ok := c.services[itemType]; ok && def.isInstance {
		results = reflect.Append(results, def.instance)
	}
	for _, namedMap := range c.namedServices {
		if def, ok := namedMap[itemType]; ok {
			results = reflect.Append(results, def.instance)
		}
	}
	outVal.Elem().Set(results)
	return nil
}

func (c *Container) definition(svcType reflect.Type) (*serviceDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.services[svcType]
	return def, ok
}

// resolve builds svcType from the root container. Scoped services are refused here.
func (c *Container) resolve(svcType reflect.Type, track map[reflect.Type]bool) (reflect.Value, error) {
	def, exists := c.definition(svcType)
	if !exists {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrServiceNotRegistered, svcType)
	}

	if track[svcType] {
		return reflect.Value{}, fmt.Errorf("%w: chain contains %s", ErrResolveCircularDependency, svcType)
	}
	track[svcType] = true
	defer delete(track, svcType)

	if def.scope == Scoped {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrScopedOnRootContainer, svcType)
	}
	if def.isInstance {
		return def.instance, nil
	}
	if inst, ok := c.cachedSingleton(def); ok {
		return inst, nil
	}

	instance, err := c.construct(def, track, c.resolve)
	if err != nil {
		return reflect.Value{}, err
	}
	if def.scope == Singleton {
		return c.storeSingleton(def, instance), nil
	}
	return instance, nil
}

func (c *Container) cachedSingleton(def *serviceDef) (reflect.Value, bool) {
	if def.scope != Singleton {
		return reflect.Value{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return def.instance, def.instance.IsValid()
}

// storeSingleton caches the first instance built for def and returns the cached one.
func (c *Container) storeSingleton(def *serviceDef, instance reflect.Value) reflect.Value {
	def.once.Do(func() {
		c.mu.Lock()
		def.instance = instance
		c.mu.Unlock()
	})
	c.mu.RLock()
	defer c.mu.RUnlock()
	return def.instance
}

// construct resolves the constructor parameters through lookup and calls the constructor.
func (c *Container) construct(def *serviceDef, track map[reflect.Type]bool, lookup lookupFunc) (reflect.Value, error) {
	def.paramOnce.Do(func() {
		params := make([]reflect.Type, def.ctorType.NumIn())
		for i := range params {
			params[i] = def.ctorType.In(i)
		}
		def.paramTypes = params
	})

	params := make([]reflect.Value, len(def.paramTypes))
	for i, pType := range def.paramTypes {
		p, err := c.resolveParam(pType, track, lookup)
		if err != nil {
			return reflect.Value{}, err
		}
		params[i] = p
	}

	results := def.ctor.Call(params)
	if len(results) != 1 {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrCreateInstanceFailed, def.implType)
	}
	return results[0], nil
}

// resolveParam resolves one constructor parameter. Unregistered []T collects the default
// and named T instances; unregistered map[string]T collects named T instances.
func (c *Container) resolveParam(pType reflect.Type, track map[reflect.Type]bool, lookup lookupFunc) (reflect.Value, error) {
	switch {
	case pType.Kind() == reflect.Slice && !c.IsRegistered(pType):
		elemType := pType.Elem()
		results := reflect.MakeSlice(pType, 0, 0)
		if c.IsRegistered(elemType) {
			if inst, err := lookup(elemType, track); err == nil {
				results = reflect.Append(results, inst)
			}
		}
		c.mu.RLock()
		for _, namedMap := range c.namedServices {
			if def, ok := namedMap[elemType]; ok {
				results = reflect.Append(results, def.instance)
			}
		}
		c.mu.RUnlock()
		return results, nil

	case pType.Kind() == reflect.Map && pType.Key().Kind() == reflect.String && !c.IsRegistered(pType):
		results := reflect.MakeMap(pType)
		c.mu.RLock()
		for name, namedMap := range c.namedServices {
			if def, ok := namedMap[pType.Elem()]; ok {
				results.SetMapIndex(reflect.ValueOf(name).Convert(pType.Key()), def.instance)
			}
		}
		c.mu.RUnlock()
		return results, nil
	}

	inst, err := lookup(pType, track)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("resolve dependency %s: %w", pType, err)
	}
	return inst, nil
}
