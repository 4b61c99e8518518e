package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
	"github.com/Ngone6325/autoinject/example/store"
)

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	c := di.NewContainer()
	require.NoError(t, c.RegisterInstance(zap.NewNop(), di.Singleton))
	_, err := autoinject.AddInjectableServices(c, autoinject.WithEntry(Module))
	require.NoError(t, err)
	return c
}

func TestModuleRegistersEveryLifetime(t *testing.T) {
	c := newContainer(t)

	lifetimes := make(map[string]di.LifetimeScope)
	for _, d := range c.Descriptors() {
		lifetimes[d.ServiceType.String()] = d.Lifetime
	}
	assert.Equal(t, map[string]di.LifetimeScope{
		"store.IUserRepo":    di.Singleton,
		"users.IUserService": di.Transient,
		"users.IUserLog":     di.Scoped,
		"*users.Greeter":     di.Scoped,
	}, lifetimes)
}

func TestLifetimes(t *testing.T) {
	c := newContainer(t)

	// transient: new service, shared singleton repo
	s1, err := di.Resolve[IUserService](c)
	require.NoError(t, err)
	s2, err := di.Resolve[IUserService](c)
	require.NoError(t, err)
	assert.NotSame(t, s1, s2)
	assert.Equal(t, s1.RepoID(), s2.RepoID())
	assert.Equal(t, "user_10086", s1.GetUserName())

	// scoped: one per scope
	a, b := c.NewScope(), c.NewScope()
	a1 := di.ScopeMustGet[IUserLog](a)
	a2 := di.ScopeMustGet[IUserLog](a)
	b1 := di.ScopeMustGet[IUserLog](b)
	assert.Equal(t, a1.RequestID(), a2.RequestID())
	assert.NotEqual(t, a1.RequestID(), b1.RequestID())

	_, err = di.Resolve[IUserLog](c)
	assert.ErrorIs(t, err, di.ErrScopedOnRootContainer)

	repo := di.ScopeMustGet[store.IUserRepo](b)
	assert.Equal(t, s1.RepoID(), repo.InstanceID())
}

func TestGreeter(t *testing.T) {
	c := newContainer(t)
	g := di.ScopeMustGet[*Greeter](c.NewScope())
	assert.Equal(t, "hello ada, from user_10086", g.Greet("ada"))
}
