// pkg/coerce/errors.go
package coerce

import "fmt"

// UnsupportedTypeError indicates a source value whose runtime kind falls
// outside the recognized variants. Fatal for the record.
type UnsupportedTypeError struct {
	GoType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("values of type %s are not supported", e.GoType)
}

// UnsupportedMappingError indicates a recognized, non-null source value
// with no valid conversion to the requested target type. Fatal for the
// record.
type UnsupportedMappingError struct {
	SourceKind string
	TargetType string
}

func (e *UnsupportedMappingError) Error() string {
	return fmt.Sprintf("values of kind %s cannot be mapped to target type %s",
		e.SourceKind, e.TargetType)
}
