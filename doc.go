// Package autoinject registers marked implementations with a di.Container.
//
// An implementation opts in by embedding a zero-size marker:
//
//	type UserRepo struct {
//		autoinject.Inject[IUserRepo] `inject:"singleton"`
//		DSN string
//	}
//
//	func NewUserRepo() *UserRepo { return &UserRepo{DSN: "..."} }
//
// Inject[S] registers the implementation under S. The base marker Injectable
// registers it under its own type. The struct tag selects the lifetime; no tag
// means Scoped.
//
// Constructors are grouped into modules. A module has a name (by convention the
// Go import path of its package) and the names of the modules it references.
// Modules are usually produced by `autoinject generate` and registered in the
// Default catalog from package init functions:
//
//	var Module = autoinject.NewModule("example.com/app/store").Provide(NewUserRepo)
//
//	func init() { autoinject.MustRegisterModule(Module) }
//
// At startup a single call walks the module graph from the entry module,
// scans every allowed module for marked constructors and adds one descriptor
// per constructor to the container:
//
//	c, err := autoinject.AddInjectableServices(di.NewContainer(),
//		autoinject.WithAllow("example.com/app"),
//		autoinject.WithLogger(logger),
//	)
//
// Types that cannot embed a marker are listed explicitly with As and Self.
package autoinject
