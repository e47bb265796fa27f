// pkg/coerce/coerce.go
package coerce

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/schema"
)

// Config provides configuration options for value coercion.
type Config struct {
	// BigDecimalFormatString selects the plain (non-exponential) string
	// form when rendering decimal values to string targets. When false the
	// default form is used, which may fall back to scientific notation.
	BigDecimalFormatString bool
	// Debug logs every field before conversion: name, source value, source
	// kind and target type. Diagnostic only; conversion results are
	// unaffected.
	Debug bool
}

// DefaultConfig returns the default coercion configuration.
func DefaultConfig() Config {
	return Config{
		BigDecimalFormatString: true,
		Debug:                  false,
	}
}

// Coercer converts single source values to their target storage
// representation. Stateless apart from its configuration; safe for use by
// one execution unit at a time.
type Coercer struct {
	logger *zap.Logger
	config Config
}

// NewCoercer creates a Coercer with default configuration.
func NewCoercer(logger *zap.Logger) *Coercer {
	return NewCoercerWithConfig(logger, DefaultConfig())
}

// NewCoercerWithConfig creates a Coercer with custom configuration.
func NewCoercerWithConfig(logger *zap.Logger, config Config) *Coercer {
	return &Coercer{
		logger: logger,
		config: config,
	}
}

// Coerce converts a source value to the representation the target type
// requires: bool, int8, int16, int32, int64, float32, float64, string or
// []byte. A nil value passes through as nil with no type check. A
// recognized value with no valid conversion fails with
// *UnsupportedMappingError; an unrecognized runtime kind fails with
// *UnsupportedTypeError.
func (c *Coercer) Coerce(v Value, targetType schema.FieldType, typeString string) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	var out interface{}

	switch sv := v.(type) {
	case Int:
		out = narrowInt(int64(sv), targetType)
	case Float:
		out = narrowFloat(float64(sv), targetType)
	case Decimal:
		out = c.coerceDecimal(sv, targetType)
	case Bool:
		out = encodeBool(bool(sv), targetType)
	case Text:
		if targetType == schema.String {
			out = string(sv)
		}
	case Date:
		out = coerceTemporal(sv, targetType)
	case Time:
		out = coerceTemporal(sv, targetType)
	case Timestamp:
		out = coerceTemporal(sv, targetType)
	case Bytes:
		if targetType == schema.Binary {
			out = []byte(sv)
		}
	case Blob:
		if targetType == schema.Binary {
			if sv.External() {
				out = []byte(sv.Ref)
			} else {
				out = sv.Data
			}
		}
	case Clob:
		if targetType == schema.String {
			if sv.External() {
				out = sv.Ref
			} else {
				out = sv.Data
			}
		}
	default:
		return nil, &UnsupportedTypeError{GoType: fmt.Sprintf("%T", v)}
	}

	// A non-null input that produced nothing has no valid conversion.
	if out == nil {
		return nil, &UnsupportedMappingError{
			SourceKind: v.Kind(),
			TargetType: typeString,
		}
	}

	return out, nil
}

// narrowInt narrows or widens an integral value to the target's native
// numeric representation. Integer targets wrap on overflow; no range
// checking.
func narrowInt(n int64, targetType schema.FieldType) interface{} {
	switch targetType {
	case schema.TinyInt:
		return int8(n)
	case schema.SmallInt:
		return int16(n)
	case schema.Int:
		return int32(n)
	case schema.BigInt:
		return n
	case schema.Float:
		return float32(n)
	case schema.Double:
		return float64(n)
	case schema.Boolean:
		return n != 0
	}
	return nil
}

// narrowFloat converts a floating value to the target's native numeric
// representation. Integer targets drop the fractional part, then wrap.
func narrowFloat(f float64, targetType schema.FieldType) interface{} {
	switch targetType {
	case schema.TinyInt:
		return int8(int64(f))
	case schema.SmallInt:
		return int16(int64(f))
	case schema.Int:
		return int32(int64(f))
	case schema.BigInt:
		return int64(f)
	case schema.Float:
		return float32(f)
	case schema.Double:
		return f
	case schema.Boolean:
		return f != 0
	}
	return nil
}

// coerceDecimal converts an arbitrary-precision decimal. String rendering
// is the one place configuration affects output.
func (c *Coercer) coerceDecimal(d Decimal, targetType schema.FieldType) interface{} {
	if targetType == schema.String {
		if c.config.BigDecimalFormatString {
			return d.Dec.Text('f')
		}
		return d.Dec.String()
	}

	switch targetType {
	case schema.TinyInt:
		return int8(decimalToInt64(d.Dec))
	case schema.SmallInt:
		return int16(decimalToInt64(d.Dec))
	case schema.Int:
		return int32(decimalToInt64(d.Dec))
	case schema.BigInt:
		return decimalToInt64(d.Dec)
	case schema.Float:
		f, _ := d.Dec.Float64()
		return float32(f)
	case schema.Double:
		f, _ := d.Dec.Float64()
		return f
	case schema.Boolean:
		return !d.Dec.IsZero()
	}
	return nil
}

// decimalToInt64 truncates toward zero and wraps to 64 bits, matching
// integral narrowing of the other numeric kinds.
func decimalToInt64(d *apd.Decimal) int64 {
	i := new(big.Int)
	coeff := d.Coeff.MathBigInt()
	if d.Exponent >= 0 {
		i.Mul(coeff, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Exponent)), nil))
	} else {
		// Quo truncates toward zero, dropping the fractional digits.
		i.Quo(coeff, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-d.Exponent)), nil))
	}
	if d.Negative {
		i.Neg(i)
	}
	return i.Int64()
}

// encodeBool encodes a boolean as 1 or 0 in the target's numeric width,
// or passes it through for a boolean target.
func encodeBool(b bool, targetType schema.FieldType) interface{} {
	n := int64(0)
	if b {
		n = 1
	}
	switch targetType {
	case schema.Boolean:
		return b
	case schema.TinyInt:
		return int8(n)
	case schema.SmallInt:
		return int16(n)
	case schema.Int:
		return int32(n)
	case schema.BigInt:
		return n
	case schema.Float:
		return float32(n)
	case schema.Double:
		return float64(n)
	}
	return nil
}

// temporal unifies the date, time and timestamp kinds; the same two-target
// rule applies to all three.
type temporal interface {
	Value
	EpochMillis() int64
	String() string
}

func coerceTemporal(t temporal, targetType schema.FieldType) interface{} {
	switch targetType {
	case schema.BigInt:
		return t.EpochMillis()
	case schema.String:
		return t.String()
	}
	return nil
}
