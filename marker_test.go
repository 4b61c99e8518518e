package autoinject_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ngone6325/autoinject"
)

func TestReadMarker(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		ok       bool
		lifetime autoinject.Lifetime
		args     []reflect.Type
		fields   []string
	}{
		{
			name:     "generic form with tag",
			typ:      reflect.TypeOf(&Foo{}),
			ok:       true,
			lifetime: autoinject.Singleton,
			args:     []reflect.Type{reflect.TypeOf((*IFoo)(nil)).Elem()},
			fields:   []string{"Inject"},
		},
		{
			name:     "base form defaults to scoped",
			typ:      reflect.TypeOf(Bar{}),
			ok:       true,
			lifetime: autoinject.Scoped,
			fields:   []string{"Injectable"},
		},
		{
			name:     "two markers",
			typ:      reflect.TypeOf(&Both{}),
			ok:       true,
			lifetime: autoinject.Scoped,
			args:     []reflect.Type{reflect.TypeOf((*IFoo)(nil)).Elem()},
			fields:   []string{"Inject", "Injectable"},
		},
		{name: "unmarked struct", typ: reflect.TypeOf(&Plain{})},
		{name: "embedding a marked type", typ: reflect.TypeOf(&Wrapped{})},
		{name: "not a struct", typ: reflect.TypeOf(NewClock())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok, err := autoinject.ReadMarker(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.lifetime, m.Lifetime)
			assert.Equal(t, tt.args, m.TypeArgs)
			assert.Equal(t, tt.fields, m.Fields)
		})
	}
}

func TestReadMarkerInvalidLifetime(t *testing.T) {
	_, ok, err := autoinject.ReadMarker(reflect.TypeOf(&Forever{}))
	assert.False(t, ok)
	assert.ErrorIs(t, err, autoinject.ErrInvalidLifetime)
	assert.Contains(t, err.Error(), "forever")
}

func TestReadMarkerTagIsCaseInsensitive(t *testing.T) {
	type transientThing struct {
		autoinject.Injectable `inject:" Transient "`
	}
	m, ok, err := autoinject.ReadMarker(reflect.TypeOf(transientThing{}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, autoinject.Transient, m.Lifetime)
}

func TestEntries(t *testing.T) {
	e := autoinject.As[Clock](NewClock, autoinject.Transient)
	assert.Equal(t, autoinject.Transient, e.Marker.Lifetime)
	assert.Equal(t, []reflect.Type{reflect.TypeOf((*Clock)(nil)).Elem()}, e.Marker.TypeArgs)

	s := autoinject.Self(NewPlain, autoinject.Singleton)
	assert.Equal(t, autoinject.Singleton, s.Marker.Lifetime)
	assert.Empty(t, s.Marker.TypeArgs)
}
