// pkg/coerce/value.go
package coerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Value is the closed set of runtime kinds a source record field can hold.
// A nil Value represents SQL NULL. The unexported marker keeps the set
// closed to this package.
type Value interface {
	// Kind returns the kind name carried into error messages.
	Kind() string

	sourceValue()
}

// Int is an integral numeric source value.
type Int int64

func (Int) Kind() string { return "int" }
func (Int) sourceValue() {}

// Float is a floating-point numeric source value.
type Float float64

func (Float) Kind() string { return "float" }
func (Float) sourceValue() {}

// Decimal is an arbitrary-precision numeric source value.
type Decimal struct {
	Dec *apd.Decimal
}

// NewDecimal parses the decimal textual form, preserving scale.
func NewDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parsing decimal %q: %w", s, err)
	}
	return Decimal{Dec: d}, nil
}

func (Decimal) Kind() string { return "decimal" }
func (Decimal) sourceValue() {}

// Bool is a boolean source value.
type Bool bool

func (Bool) Kind() string { return "bool" }
func (Bool) sourceValue() {}

// Text is a character string source value.
type Text string

func (Text) Kind() string { return "text" }
func (Text) sourceValue() {}

// Date is a calendar-date source value.
type Date time.Time

func (Date) Kind() string { return "date" }
func (Date) sourceValue() {}

// EpochMillis returns the date's instant in epoch milliseconds.
func (d Date) EpochMillis() int64 { return time.Time(d).UnixMilli() }

// String renders the canonical yyyy-mm-dd form.
func (d Date) String() string { return time.Time(d).Format("2006-01-02") }

// Time is a time-of-day source value.
type Time time.Time

func (Time) Kind() string { return "time" }
func (Time) sourceValue() {}

// EpochMillis returns the time's instant in epoch milliseconds.
func (t Time) EpochMillis() int64 { return time.Time(t).UnixMilli() }

// String renders the canonical hh:mm:ss form.
func (t Time) String() string { return time.Time(t).Format("15:04:05") }

// Timestamp is a point-in-time source value.
type Timestamp time.Time

func (Timestamp) Kind() string { return "timestamp" }
func (Timestamp) sourceValue() {}

// EpochMillis returns the timestamp's instant in epoch milliseconds.
func (t Timestamp) EpochMillis() int64 { return time.Time(t).UnixMilli() }

// String renders the canonical form with fractional seconds trimmed of
// trailing zeros, keeping at least one fractional digit.
func (t Timestamp) String() string {
	tt := time.Time(t)
	frac := strings.TrimRight(fmt.Sprintf("%09d", tt.Nanosecond()), "0")
	if frac == "" {
		frac = "0"
	}
	return tt.Format("2006-01-02 15:04:05") + "." + frac
}

// Bytes is a fixed byte-sequence source value.
type Bytes []byte

func (Bytes) Kind() string { return "bytes" }
func (Bytes) sourceValue() {}

// Blob is a large binary object: either materialized inline data or an
// external reference whose textual form stands in for the content. Data
// and Ref are mutually exclusive.
type Blob struct {
	Data []byte
	Ref  string
}

func (Blob) Kind() string { return "blob" }
func (Blob) sourceValue() {}

// External reports whether the content was left unmaterialized.
func (b Blob) External() bool { return b.Ref != "" }

// Clob is a large character object, inline or external like Blob.
type Clob struct {
	Data string
	Ref  string
}

func (Clob) Kind() string { return "clob" }
func (Clob) sourceValue() {}

// External reports whether the content was left unmaterialized.
func (c Clob) External() bool { return c.Ref != "" }

// kindOf names a value's kind, treating nil as SQL NULL.
func kindOf(v Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind()
}
