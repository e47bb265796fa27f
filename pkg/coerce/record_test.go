package coerce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/schema"
)

func testSchema(t *testing.T, fields ...schema.Field) *schema.Schema {
	t.Helper()
	s, err := schema.New(fields, nil)
	require.NoError(t, err)
	return s
}

func TestConvertRecord(t *testing.T) {
	s := testSchema(t,
		schema.NewField("id", schema.BigInt),
		schema.NewField("name", schema.String),
		schema.NewField("active", schema.Boolean),
	)
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{
		"id":     Int(42),
		"name":   Text("Ann"),
		"active": Bool(true),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"id":     int64(42),
		"name":   "Ann",
		"active": true,
	}, got)
}

func TestConvertRecordBooleanTargetSwap(t *testing.T) {
	// The same source against an int target encodes the flag numerically.
	s := testSchema(t,
		schema.NewField("id", schema.BigInt),
		schema.NewField("name", schema.String),
		schema.NewField("active", schema.Int),
	)
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{
		"id":     Int(42),
		"name":   Text("Ann"),
		"active": Bool(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), got["active"])
}

func TestConvertRecordLowercasesFieldNames(t *testing.T) {
	s := testSchema(t, schema.NewField("UserId", schema.BigInt))
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{"UserId": Int(7)})
	require.NoError(t, err)

	_, mixed := got["UserId"]
	assert.False(t, mixed)
	assert.Equal(t, int64(7), got["userid"])
}

func TestConvertRecordIdentityRoundTrip(t *testing.T) {
	// Values already matching their target types come back equal.
	s := testSchema(t,
		schema.NewField("n", schema.BigInt),
		schema.NewField("s", schema.String),
		schema.NewField("b", schema.Boolean),
		schema.NewField("d", schema.Double),
	)
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{
		"n": Int(123),
		"s": Text("same"),
		"b": Bool(false),
		"d": Float(1.5),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(123), got["n"])
	assert.Equal(t, "same", got["s"])
	assert.Equal(t, false, got["b"])
	assert.Equal(t, 1.5, got["d"])
}

func TestConvertRecordSizeMatchesInput(t *testing.T) {
	// A schema field absent from the source simply does not appear.
	s := testSchema(t,
		schema.NewField("id", schema.BigInt),
		schema.NewField("name", schema.String),
		schema.NewField("extra", schema.String),
	)
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{
		"id":   Int(1),
		"name": Text("x"),
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	_, present := got["extra"]
	assert.False(t, present)
}

func TestConvertRecordNullFieldStaysNull(t *testing.T) {
	s := testSchema(t, schema.NewField("id", schema.BigInt))
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{"id": nil})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got["id"])
}

func TestConvertRecordUnknownFieldFails(t *testing.T) {
	s := testSchema(t, schema.NewField("id", schema.BigInt))
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	_, err := rc.Convert(map[string]Value{"ghost": Int(1)})
	require.Error(t, err)

	var lookupErr *schema.LookupError
	assert.True(t, errors.As(err, &lookupErr))
}

func TestConvertRecordFirstFailureAborts(t *testing.T) {
	s := testSchema(t, schema.NewField("when", schema.Int))
	rc := NewRecordConverter(s, testCoercer(t), zap.NewNop())

	got, err := rc.Convert(map[string]Value{"when": Text("not a time")})
	require.Error(t, err)
	assert.Nil(t, got)

	var mappingErr *UnsupportedMappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Contains(t, err.Error(), "when")
}
