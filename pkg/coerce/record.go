// pkg/coerce/record.go
package coerce

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/schema"
)

// RecordConverter applies the target schema to whole source records,
// delegating each field value to a Coercer. The schema is shared and
// immutable; each execution unit should hold its own converter.
type RecordConverter struct {
	schema  *schema.Schema
	coercer *Coercer
	logger  *zap.Logger
}

// NewRecordConverter creates a converter over the given schema.
func NewRecordConverter(s *schema.Schema, c *Coercer, logger *zap.Logger) *RecordConverter {
	return &RecordConverter{
		schema:  s,
		coercer: c,
		logger:  logger,
	}
}

// Convert coerces every field of the source record to its schema type,
// keyed by lower-cased field name. The output holds exactly one entry per
// source field; schema fields absent from the source do not appear. The
// first field-level failure aborts the record.
func (rc *RecordConverter) Convert(source map[string]Value) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(source))

	for name, val := range source {
		field, err := rc.schema.Lookup(name)
		if err != nil {
			return nil, err
		}

		if rc.coercer.config.Debug {
			rc.logger.Debug("Converting field",
				zap.String("field", name),
				zap.Any("value", val),
				zap.String("sourceKind", kindOf(val)),
				zap.String("targetType", field.TypeString))
		}

		converted, err := rc.coercer.Coerce(val, field.Type, field.TypeString)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		result[strings.ToLower(name)] = converted
	}

	return result, nil
}
