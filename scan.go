package autoinject

import (
	"fmt"
	"reflect"
	"strings"
)

// Filter selects the modules that are scanned.
//
// Allow holds module name prefixes matched on path segments: "a/b" allows
// "a/b" and "a/b/c" but not "a/bc". A trailing "/..." is accepted. An empty
// Allow list allows every module.
//
// Deny holds name fragments. A module whose name contains one is skipped even
// when allowed. This is a coarse heuristic: any module whose name happens to
// contain a fragment is skipped silently.
type Filter struct {
	Allow []string
	Deny  []string
}

// Allows reports whether the module called name is scanned.
func (f Filter) Allows(name string) bool {
	for _, frag := range f.Deny {
		if frag != "" && strings.Contains(name, frag) {
			return false
		}
	}
	if len(f.Allow) == 0 {
		return true
	}
	for _, prefix := range f.Allow {
		prefix = strings.TrimSuffix(strings.TrimSuffix(prefix, "/..."), "/")
		if prefix == "" {
			continue
		}
		if name == prefix || strings.HasPrefix(name, prefix+"/") {
			return true
		}
	}
	return false
}

// Candidate is a marked constructor found by Scan.
type Candidate struct {
	Module      string
	Constructor any
	ImplType    reflect.Type
	Marker      Marker
}

// Scan returns the marked constructors of the modules f allows, in module
// order and then declaration order. Unmarked constructors are skipped.
func Scan(modules []*Module, f Filter) ([]Candidate, error) {
	var out []Candidate
	for _, m := range modules {
		if !f.Allows(m.Name()) {
			continue
		}
		for _, decl := range m.Declarations() {
			c, ok, err := candidate(m.Name(), decl)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func candidate(module string, decl any) (Candidate, bool, error) {
	var (
		ctor     any
		explicit *Marker
	)
	switch v := decl.(type) {
	case Entry:
		ctor, explicit = v.Constructor, &v.Marker
	case *Entry:
		if v == nil {
			return Candidate{}, false, fmt.Errorf("%w: nil entry in %s", ErrInvalidDeclaration, module)
		}
		ctor, explicit = v.Constructor, &v.Marker
	default:
		ctor = decl
	}

	implType, err := resultType(ctor)
	if err != nil {
		return Candidate{}, false, fmt.Errorf("%w: %T in %s", err, ctor, module)
	}

	if explicit != nil {
		return Candidate{Module: module, Constructor: ctor, ImplType: implType, Marker: *explicit}, true, nil
	}

	m, ok, err := ReadMarker(implType)
	if err != nil || !ok {
		return Candidate{}, false, err
	}
	return Candidate{Module: module, Constructor: ctor, ImplType: implType, Marker: m}, true, nil
}

func resultType(ctor any) (reflect.Type, error) {
	if ctor == nil {
		return nil, ErrInvalidDeclaration
	}
	t := reflect.TypeOf(ctor)
	if t.Kind() != reflect.Func || t.NumOut() != 1 {
		return nil, ErrInvalidDeclaration
	}
	return t.Out(0), nil
}
