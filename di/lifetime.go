package di

import (
	"fmt"
	"strings"
)

type LifetimeScope int

const (
	Transient LifetimeScope = iota // Transient: new instance on each resolution
	Singleton                      // Singleton: one instance, cached in the root container
	Scoped                         // Scoped: one instance per Scope, isolated between scopes
)

// String returns the lower-case lifetime name.
func (l LifetimeScope) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return fmt.Sprintf("LifetimeScope(%d)", int(l))
	}
}

// ParseLifetime parses a lifetime name, ignoring case and surrounding spaces.
func ParseLifetime(s string) (LifetimeScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	case "scoped":
		return Scoped, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLifetime, s)
}
