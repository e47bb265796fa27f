// pkg/schema/schema.go
package schema

import (
	"fmt"
	"strings"
)

// FieldType identifies the storage type a converted field must conform to.
type FieldType int

const (
	Boolean FieldType = iota
	TinyInt
	SmallInt
	Int
	BigInt
	Float
	Double
	String
	Binary
)

// String returns the lower-cased type name used in diagnostics and DDL.
func (t FieldType) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case TinyInt:
		return "tinyint"
	case SmallInt:
		return "smallint"
	case Int:
		return "int"
	case BigInt:
		return "bigint"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseFieldType resolves a type name (case-insensitive) to its FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boolean", "bool":
		return Boolean, nil
	case "tinyint":
		return TinyInt, nil
	case "smallint":
		return SmallInt, nil
	case "int", "integer":
		return Int, nil
	case "bigint":
		return BigInt, nil
	case "float":
		return Float, nil
	case "double":
		return Double, nil
	case "string":
		return String, nil
	case "binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("unknown field type: %q", s)
	}
}

// Field describes a single column of the target schema. Immutable after
// construction.
type Field struct {
	Name       string
	Type       FieldType
	TypeString string // human-readable form carried into error messages
}

// NewField creates a field whose TypeString is derived from the type.
func NewField(name string, t FieldType) Field {
	return Field{Name: name, Type: t, TypeString: t.String()}
}

// LookupError indicates a source field name with no corresponding schema
// entry. A well-formed record never triggers this, so callers treat it as a
// configuration defect rather than a recoverable condition.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no schema entry for field %q", e.Name)
}

// Schema is the flattened target schema: data columns followed by partition
// columns, indexed by lower-cased name. Immutable after construction and
// safe for concurrent readers.
type Schema struct {
	fields    []Field
	index     map[string]int
	partition map[string]bool
}

// New builds a schema by appending partition columns after data columns,
// so partition fields are addressable identically to data fields. Names
// must be unique after lower-casing.
func New(dataCols, partitionCols []Field) (*Schema, error) {
	s := &Schema{
		fields:    make([]Field, 0, len(dataCols)+len(partitionCols)),
		index:     make(map[string]int, len(dataCols)+len(partitionCols)),
		partition: make(map[string]bool, len(partitionCols)),
	}

	for _, f := range dataCols {
		if err := s.append(f); err != nil {
			return nil, err
		}
	}
	for _, f := range partitionCols {
		if err := s.append(f); err != nil {
			return nil, err
		}
		s.partition[strings.ToLower(f.Name)] = true
	}

	return s, nil
}

func (s *Schema) append(f Field) error {
	key := strings.ToLower(f.Name)
	if _, exists := s.index[key]; exists {
		return fmt.Errorf("duplicate schema field: %q", key)
	}
	if f.TypeString == "" {
		f.TypeString = f.Type.String()
	}
	s.index[key] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// Lookup resolves a field by name, case-insensitively.
func (s *Schema) Lookup(name string) (Field, error) {
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return Field{}, &LookupError{Name: name}
	}
	return s.fields[i], nil
}

// IsPartition reports whether the named field is a partition column.
func (s *Schema) IsPartition(name string) bool {
	return s.partition[strings.ToLower(name)]
}

// Fields returns the ordered field list.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Len returns the number of fields in the schema.
func (s *Schema) Len() int {
	return len(s.fields)
}
