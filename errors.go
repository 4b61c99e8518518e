package autoinject

import "errors"

var (
	// ErrInvalidLifetime is returned for a marker tag that is not a lifetime name.
	ErrInvalidLifetime = errors.New("autoinject: invalid lifetime in marker tag")

	// ErrAmbiguousServiceType is returned when a type carries more than one marker
	// or more than one service type argument.
	ErrAmbiguousServiceType = errors.New("autoinject: service type cannot be determined uniquely")

	// ErrDescribe wraps container-level validation failures while building a descriptor.
	ErrDescribe = errors.New("autoinject: cannot describe service")

	// ErrModuleLoad is returned when a referenced module cannot be loaded during discovery.
	ErrModuleLoad = errors.New("autoinject: module load failed")

	ErrModuleNotFound     = errors.New("autoinject: module not found")
	ErrModuleDuplicate    = errors.New("autoinject: module already registered")
	ErrInvalidModule      = errors.New("autoinject: module must be non-nil and named")
	ErrInvalidDeclaration = errors.New("autoinject: declaration must be a constructor with one result")
	ErrNilContainer       = errors.New("autoinject: nil container")
)
