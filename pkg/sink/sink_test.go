package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONLSinkWritesOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLSink(&buf, zap.NewNop())

	require.NoError(t, s.Write("1", map[string]interface{}{"id": int64(1), "name": "Ann"}))
	require.NoError(t, s.Write("2", map[string]interface{}{"id": int64(2), "name": nil}))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), s.Written())

	var first struct {
		Key    string                 `json:"key"`
		Record map[string]interface{} `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "1", first.Key)
	assert.Equal(t, "Ann", first.Record["name"])
}

func TestJSONLSinkEncodesBinaryAsBase64(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLSink(&buf, zap.NewNop())

	require.NoError(t, s.Write("k", map[string]interface{}{"payload": []byte{0x01, 0x02}}))
	require.NoError(t, s.Close())

	var line struct {
		Record map[string]string `json:"record"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "AQI=", line.Record["payload"])
}
