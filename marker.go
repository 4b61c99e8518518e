package autoinject

import (
	"fmt"
	"reflect"

	"github.com/Ngone6325/autoinject/di"
)

// Lifetime is the container lifetime of a registered service.
type Lifetime = di.LifetimeScope

const (
	Transient = di.Transient
	Singleton = di.Singleton
	Scoped    = di.Scoped
)

// TagKey is the struct tag key holding the lifetime of an embedded marker.
const TagKey = "inject"

// marker is implemented by the embeddable marker types only.
type marker interface {
	typeArgs() []reflect.Type
}

var markerType = reflect.TypeOf((*marker)(nil)).Elem()

// Inject marks the embedding struct as an implementation of service type S.
type Inject[S any] struct{}

func (Inject[S]) typeArgs() []reflect.Type {
	return []reflect.Type{reflect.TypeOf((*S)(nil)).Elem()}
}

// Injectable marks the embedding struct for registration under its own type.
type Injectable struct{}

func (Injectable) typeArgs() []reflect.Type { return nil }

// Marker is the registration information read from a type or an Entry.
type Marker struct {
	Lifetime Lifetime
	TypeArgs []reflect.Type // service types declared by the marker(s)
	Fields   []string       // names of the embedded marker fields
}

// ReadMarker reads the embedded markers of implType, looking through one pointer.
// ok is false when the type carries no marker.
func ReadMarker(implType reflect.Type) (m Marker, ok bool, err error) {
	t := implType
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Marker{}, false, nil
	}

	m.Lifetime = Scoped
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !isMarkerField(f) {
			continue
		}
		if !ok {
			if m.Lifetime, err = parseTag(f.Tag.Get(TagKey)); err != nil {
				return Marker{}, false, fmt.Errorf("%w: %s.%s: %v", ErrInvalidLifetime, implType, f.Name, err)
			}
		}
		ok = true
		m.Fields = append(m.Fields, f.Name)
		m.TypeArgs = append(m.TypeArgs, reflect.Zero(f.Type).Interface().(marker).typeArgs()...)
	}
	if !ok {
		return Marker{}, false, nil
	}
	return m, true, nil
}

// isMarkerField reports whether f embeds Inject or Injectable directly.
// Structs that merely embed a marked type are not marked themselves.
func isMarkerField(f reflect.StructField) bool {
	return f.Anonymous &&
		f.Type.Kind() == reflect.Struct &&
		f.Type.PkgPath() == markerType.PkgPath() &&
		f.Type.Implements(markerType)
}

func parseTag(tag string) (Lifetime, error) {
	if tag == "" {
		return Scoped, nil
	}
	return di.ParseLifetime(tag)
}

// Entry is an explicit table entry for a constructor whose type cannot embed a marker.
type Entry struct {
	Constructor any
	Marker      Marker
}

// As lists ctor for registration under service type S.
func As[S any](ctor any, lifetime Lifetime) Entry {
	return Entry{
		Constructor: ctor,
		Marker:      Marker{Lifetime: lifetime, TypeArgs: Inject[S]{}.typeArgs()},
	}
}

// Self lists ctor for registration under its own return type.
func Self(ctor any, lifetime Lifetime) Entry {
	return Entry{Constructor: ctor, Marker: Marker{Lifetime: lifetime}}
}
