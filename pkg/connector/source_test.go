package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
)

func TestSourceValueMapping(t *testing.T) {
	s := NewSQLSource(nil, "", zap.NewNop())

	v, err := s.sourceValue("c", nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = s.sourceValue("c", int64(42))
	require.NoError(t, err)
	assert.Equal(t, coerce.Int(42), v)

	v, err = s.sourceValue("c", 3.5)
	require.NoError(t, err)
	assert.Equal(t, coerce.Float(3.5), v)

	v, err = s.sourceValue("c", true)
	require.NoError(t, err)
	assert.Equal(t, coerce.Bool(true), v)

	v, err = s.sourceValue("c", "Ann")
	require.NoError(t, err)
	assert.Equal(t, coerce.Text("Ann"), v)

	instant := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v, err = s.sourceValue("c", instant)
	require.NoError(t, err)
	assert.Equal(t, coerce.Timestamp(instant), v)

	v, err = s.sourceValue("c", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, coerce.Bytes{0x01}, v)

	_, err = s.sourceValue("c", struct{}{})
	assert.Error(t, err)
}

func TestSourceValueColumnTags(t *testing.T) {
	s := NewSQLSource(nil, "", zap.NewNop()).
		WithDecimalColumns("Price").
		WithDateColumns("born")

	v, err := s.sourceValue("price", []byte("123.450"))
	require.NoError(t, err)
	dec, ok := v.(coerce.Decimal)
	require.True(t, ok)
	assert.Equal(t, "123.450", dec.Dec.Text('f'))

	v, err = s.sourceValue("PRICE", "9.99")
	require.NoError(t, err)
	_, ok = v.(coerce.Decimal)
	assert.True(t, ok)

	day := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)
	v, err = s.sourceValue("born", day)
	require.NoError(t, err)
	assert.Equal(t, coerce.Date(day), v)

	_, err = s.sourceValue("price", []byte("not a number"))
	assert.Error(t, err)
}
