package autoinject_test

import (
	"reflect"

	"github.com/Ngone6325/autoinject"
)

type IFoo interface{ Foo() string }

type Foo struct {
	autoinject.Inject[IFoo] `inject:"singleton"`
}

func NewFoo() *Foo { return &Foo{} }

func (*Foo) Foo() string { return "foo" }

type Bar struct {
	autoinject.Injectable
}

func NewBar() *Bar { return &Bar{} }

// Plain has no marker.
type Plain struct{}

func NewPlain() *Plain { return &Plain{} }

type Both struct {
	autoinject.Inject[IFoo]
	autoinject.Injectable
}

func NewBoth() *Both { return &Both{} }

func (*Both) Foo() string { return "both" }

type Forever struct {
	autoinject.Injectable `inject:"forever"`
}

func NewForever() *Forever { return &Forever{} }

type Clock interface{ Now() int }

type fixedClock int

func (c fixedClock) Now() int { return int(c) }

func NewClock() fixedClock { return fixedClock(42) }

// Settings marks its value type but is constructed as a pointer.
type Settings struct {
	autoinject.Inject[Settings]
}

func NewSettings() *Settings { return &Settings{} }

// Wrapped embeds a marked type without being marked itself.
type Wrapped struct {
	Foo
}

func NewWrapped() *Wrapped { return &Wrapped{} }

// graph builds a catalog holding the named modules, each requiring the listed names.
func graph(edges map[string][]string) *autoinject.Catalog {
	c := autoinject.NewCatalog()
	for name, requires := range edges {
		c.MustRegister(autoinject.NewModule(name, requires...))
	}
	return c
}

func names(modules []*autoinject.Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.Name()
	}
	return out
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
