package autoinject_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ngone6325/autoinject"
)

func TestFilterAllows(t *testing.T) {
	tests := []struct {
		name   string
		filter autoinject.Filter
		module string
		want   bool
	}{
		{"empty filter", autoinject.Filter{}, "anything", true},
		{"exact prefix", autoinject.Filter{Allow: []string{"example.com/app"}}, "example.com/app", true},
		{"sub package", autoinject.Filter{Allow: []string{"example.com/app"}}, "example.com/app/users", true},
		{"segment boundary", autoinject.Filter{Allow: []string{"example.com/app"}}, "example.com/apple", false},
		{"dots suffix", autoinject.Filter{Allow: []string{"example.com/app/..."}}, "example.com/app/store", true},
		{"trailing slash", autoinject.Filter{Allow: []string{"example.com/app/"}}, "example.com/app", true},
		{"not allowed", autoinject.Filter{Allow: []string{"example.com/app"}}, "github.com/other", false},
		{"deny fragment", autoinject.Filter{Deny: []string{"internal"}}, "example.com/internal/x", false},
		{"deny wins over allow", autoinject.Filter{Allow: []string{"example.com"}, Deny: []string{"mock"}}, "example.com/mocks", false},
		{"empty deny fragment ignored", autoinject.Filter{Deny: []string{""}}, "example.com/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Allows(tt.module))
		})
	}
}

func TestScan(t *testing.T) {
	a := autoinject.NewModule("example.com/a").Provide(NewFoo, NewPlain, NewBar)
	b := autoinject.NewModule("example.com/b").Provide(
		autoinject.As[Clock](NewClock, autoinject.Singleton),
		NewWrapped,
	)

	got, err := autoinject.Scan([]*autoinject.Module{a, b}, autoinject.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "example.com/a", got[0].Module)
	assert.Equal(t, reflect.TypeOf(&Foo{}), got[0].ImplType)
	assert.Equal(t, autoinject.Singleton, got[0].Marker.Lifetime)

	assert.Equal(t, reflect.TypeOf(&Bar{}), got[1].ImplType)

	assert.Equal(t, "example.com/b", got[2].Module)
	assert.Equal(t, reflect.TypeOf(fixedClock(0)), got[2].ImplType)
	assert.Equal(t, autoinject.Singleton, got[2].Marker.Lifetime)
}

func TestScanSkipsFilteredModules(t *testing.T) {
	app := autoinject.NewModule("example.com/app").Provide(NewFoo)
	vendor := autoinject.NewModule("github.com/vendor/lib").Provide(NewBar)
	mocks := autoinject.NewModule("example.com/app/mocks").Provide(NewBar)

	got, err := autoinject.Scan(
		[]*autoinject.Module{app, vendor, mocks},
		autoinject.Filter{Allow: []string{"example.com/app"}, Deny: []string{"mocks"}},
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "example.com/app", got[0].Module)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		decl any
		want error
	}{
		{"not a function", 42, autoinject.ErrInvalidDeclaration},
		{"nil declaration", nil, autoinject.ErrInvalidDeclaration},
		{"two results", func() (*Foo, error) { return nil, nil }, autoinject.ErrInvalidDeclaration},
		{"nil entry", (*autoinject.Entry)(nil), autoinject.ErrInvalidDeclaration},
		{"invalid lifetime", NewForever, autoinject.ErrInvalidLifetime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := autoinject.NewModule("bad").Provide(tt.decl)
			got, err := autoinject.Scan([]*autoinject.Module{m}, autoinject.Filter{})
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScanEntryPointer(t *testing.T) {
	e := autoinject.Self(NewPlain, autoinject.Transient)
	m := autoinject.NewModule("m").Provide(&e)

	got, err := autoinject.Scan([]*autoinject.Module{m}, autoinject.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reflect.TypeOf(&Plain{}), got[0].ImplType)
}
