// pkg/pipeline/guard.go
package pipeline

import (
	"fmt"

	"github.com/warebridge/hcat-ingress/pkg/schema"
)

// NullPartitionKeyError indicates a converted record carrying a null value
// in a partition-key field.
type NullPartitionKeyError struct {
	Field string
}

func (e *NullPartitionKeyError) Error() string {
	return fmt.Sprintf("partition key %q cannot be null; declare the source column as not null", e.Field)
}

// PartitionGuard rejects converted records whose partition-key fields are
// null. It is an explicit validation layer above record conversion and is
// only active when wired into the runner.
type PartitionGuard struct {
	schema *schema.Schema
}

// NewPartitionGuard creates a guard over the given schema.
func NewPartitionGuard(s *schema.Schema) *PartitionGuard {
	return &PartitionGuard{schema: s}
}

// Check inspects a converted record and fails on the first null
// partition-key value.
func (g *PartitionGuard) Check(rec map[string]interface{}) error {
	for name, v := range rec {
		if v == nil && g.schema.IsPartition(name) {
			return &NullPartitionKeyError{Field: name}
		}
	}
	return nil
}
