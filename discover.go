package autoinject

import "fmt"

// Discover returns every module reachable from entry through Requires, each
// exactly once, in breadth-first order. Referenced modules are loaded from
// catalog (Default when nil). A nil entry yields no modules.
//
// A module that cannot be loaded aborts discovery.
func Discover(entry *Module, catalog *Catalog) ([]*Module, error) {
	if entry == nil {
		return nil, nil
	}
	if catalog == nil {
		catalog = Default
	}

	visited := map[string]bool{entry.Name(): true}
	queue := []*Module{entry}
	var discovered []*Module

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		discovered = append(discovered, m)

		for _, ref := range m.Requires() {
			if visited[ref] {
				continue
			}
			visited[ref] = true

			dep, err := catalog.Load(ref)
			if err != nil {
				return nil, fmt.Errorf("%w: %s referenced by %s: %w", ErrModuleLoad, ref, m.Name(), err)
			}
			queue = append(queue, dep)
		}
	}
	return discovered, nil
}
