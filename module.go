package autoinject

import (
	"fmt"
	"sort"
	"sync"
)

// Module is a named list of constructors plus the names of the modules it references.
type Module struct {
	name     string
	requires []string
	decls    []any
}

// NewModule creates a module referencing the given module names.
func NewModule(name string, requires ...string) *Module {
	return &Module{
		name:     name,
		requires: append([]string(nil), requires...),
	}
}

// Name returns the fully qualified module name.
func (m *Module) Name() string { return m.name }

// Requires returns the names of the referenced modules.
func (m *Module) Requires() []string { return append([]string(nil), m.requires...) }

// Provide appends constructors or Entry values and returns m for chaining.
func (m *Module) Provide(items ...any) *Module {
	m.decls = append(m.decls, items...)
	return m
}

// Declarations returns the provided constructors and entries in declaration order.
func (m *Module) Declarations() []any { return append([]any(nil), m.decls...) }

func (m *Module) String() string {
	return fmt.Sprintf("module %s (%d declarations, %d references)", m.name, len(m.decls), len(m.requires))
}

// Catalog maps module names to modules. It plays the role of a module loader
// during discovery.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]*Module
	order   []string
	entry   string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]*Module)}
}

// Default is the catalog generated module files register into.
var Default = NewCatalog()

// Register adds m to the catalog.
func (c *Catalog) Register(m *Module) error {
	if m == nil || m.name == "" {
		return ErrInvalidModule
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.modules[m.name]; exists {
		return fmt.Errorf("%w: %s", ErrModuleDuplicate, m.name)
	}
	c.modules[m.name] = m
	c.order = append(c.order, m.name)
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalog) MustRegister(m *Module) {
	if err := c.Register(m); err != nil {
		panic(err)
	}
}

// Load returns the module registered under name.
func (c *Catalog) Load(name string) (*Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	return m, nil
}

// SetEntry names the module discovery starts from.
func (c *Catalog) SetEntry(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = name
}

// Entry returns the entry module. It returns (nil, nil) when no entry was set.
func (c *Catalog) Entry() (*Module, error) {
	c.mu.RLock()
	name := c.entry
	c.mu.RUnlock()
	if name == "" {
		return nil, nil
	}
	return c.Load(name)
}

// Modules returns the registered modules in registration order.
func (c *Catalog) Modules() []*Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Module, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.modules[name])
	}
	return out
}

// Names returns the registered module names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	return names
}

func RegisterModule(m *Module) error { return Default.Register(m) }

func MustRegisterModule(m *Module) { Default.MustRegister(m) }

// SetEntry names the entry module of the Default catalog.
func SetEntry(name string) { Default.SetEntry(name) }
