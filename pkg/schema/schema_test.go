package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppendsPartitionColumnsAfterDataColumns(t *testing.T) {
	s, err := New(
		[]Field{NewField("id", BigInt), NewField("name", String)},
		[]Field{NewField("region", String)},
	)
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, "id", s.Fields()[0].Name)
	assert.Equal(t, "name", s.Fields()[1].Name)
	assert.Equal(t, "region", s.Fields()[2].Name)

	assert.True(t, s.IsPartition("region"))
	assert.True(t, s.IsPartition("REGION"))
	assert.False(t, s.IsPartition("id"))
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	s, err := New([]Field{NewField("UserId", BigInt)}, nil)
	require.NoError(t, err)

	lower, err := s.Lookup("userid")
	require.NoError(t, err)

	mixed, err := s.Lookup("UserId")
	require.NoError(t, err)

	assert.Equal(t, lower, mixed)
	assert.Equal(t, BigInt, mixed.Type)
	assert.Equal(t, "bigint", mixed.TypeString)
}

func TestLookupUnknownFieldFails(t *testing.T) {
	s, err := New([]Field{NewField("id", BigInt)}, nil)
	require.NoError(t, err)

	_, err = s.Lookup("missing")
	require.Error(t, err)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "missing", lookupErr.Name)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		[]Field{NewField("id", BigInt)},
		[]Field{NewField("ID", String)},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseFieldType(t *testing.T) {
	cases := map[string]FieldType{
		"boolean":  Boolean,
		"TINYINT":  TinyInt,
		"smallint": SmallInt,
		"int":      Int,
		"bigint":   BigInt,
		"float":    Float,
		"double":   Double,
		"string":   String,
		"binary":   Binary,
	}
	for in, want := range cases {
		got, err := ParseFieldType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFieldType("varchar")
	assert.Error(t, err)
}

func TestFieldTypeString(t *testing.T) {
	assert.Equal(t, "tinyint", TinyInt.String())
	assert.Equal(t, "binary", Binary.String())
}
