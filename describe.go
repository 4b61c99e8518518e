package autoinject

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Ngone6325/autoinject/di"
)

// Describe builds the container descriptor for c.
//
// The service type is the marker's single type argument, or the
// implementation type for the base marker. A type carrying several markers
// or type arguments fails with ErrAmbiguousServiceType.
func Describe(c Candidate) (di.ServiceDescriptor, error) {
	if len(c.Marker.Fields) > 1 || len(c.Marker.TypeArgs) > 1 {
		return di.ServiceDescriptor{}, fmt.Errorf("%w: %s declares [%s]",
			ErrAmbiguousServiceType, c.ImplType, typeList(c.Marker.TypeArgs))
	}

	var svc reflect.Type
	if len(c.Marker.TypeArgs) == 1 {
		svc = c.Marker.TypeArgs[0]
	}

	d, err := di.Describe(svc, c.Constructor, c.Marker.Lifetime)
	if err != nil {
		return di.ServiceDescriptor{}, fmt.Errorf("%w %s: %w", ErrDescribe, c.ImplType, err)
	}
	return d, nil
}

func typeList(ts []reflect.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
