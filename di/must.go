package di

import "fmt"

// Must* variants panic on error. They are meant for bootstrap code where a
// registration mistake should stop the program.

func (c *Container) MustRegister(ctor any, scope LifetimeScope) {
	if err := c.Register(ctor, scope); err != nil {
		panic(fmt.Sprintf("di: register failed: %v", err))
	}
}

func (c *Container) MustRegisterAs(ctor any, interfaceType any, scope LifetimeScope) {
	if err := c.RegisterAs(ctor, interfaceType, scope); err != nil {
		panic(fmt.Sprintf("di: register as interface failed: %v", err))
	}
}

func (c *Container) MustAdd(d ServiceDescriptor) {
	if err := c.Add(d); err != nil {
		panic(fmt.Sprintf("di: add descriptor failed: %v", err))
	}
}

func (c *Container) MustRegisterInstance(instance any, scope LifetimeScope) {
	if err := c.RegisterInstance(instance, scope); err != nil {
		panic(fmt.Sprintf("di: register instance failed: %v", err))
	}
}

func (c *Container) MustRegisterInstanceAs(instance any, interfaceType any, scope LifetimeScope) {
	if err := c.RegisterInstanceAs(instance, interfaceType, scope); err != nil {
		panic(fmt.Sprintf("di: register instance as interface failed: %v", err))
	}
}

func (c *Container) MustRegisterInstanceNamed(name string, instance any, scope LifetimeScope) {
	if err := c.RegisterInstanceNamed(name, instance, scope); err != nil {
		panic(fmt.Sprintf("di: register named instance failed: %v", err))
	}
}

func (c *Container) MustRegisterInstanceAsNamed(name string, instance any, interfaceType any, scope LifetimeScope) {
	if err := c.RegisterInstanceAsNamed(name, instance, interfaceType, scope); err != nil {
		panic(fmt.Sprintf("di: register named instance as interface failed: %v", err))
	}
}

func (c *Container) MustResolve(out any) {
	if err := c.Resolve(out); err != nil {
		panic(fmt.Sprintf("di: resolve failed: %v", err))
	}
}

func (c *Container) MustResolveNamed(name string, out any) {
	if err := c.ResolveNamed(name, out); err != nil {
		panic(fmt.Sprintf("di: resolve named failed: %v", err))
	}
}

func (c *Container) MustResolveAll(out any) {
	if err := c.ResolveAll(out); err != nil {
		panic(fmt.Sprintf("di: resolve all failed: %v", err))
	}
}

func (s *Scope) MustResolve(out any) {
	if err := s.Resolve(out); err != nil {
		panic(fmt.Sprintf("di: scope resolve failed: %v", err))
	}
}
