package lob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
)

func writeObject(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestResolveMaterializesSmallObjects(t *testing.T) {
	dir := t.TempDir()
	writeObject(t, dir, "blob-1", []byte{0x01, 0x02, 0x03})
	writeObject(t, dir, "clob-1", []byte("hello"))

	l := NewLoader(dir, 1024, zap.NewNop())
	rec := map[string]coerce.Value{
		"payload": coerce.Blob{Ref: "blob-1"},
		"notes":   coerce.Clob{Ref: "clob-1"},
	}

	require.NoError(t, l.Resolve(rec))

	blob, ok := rec["payload"].(coerce.Blob)
	require.True(t, ok)
	assert.False(t, blob.External())
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, blob.Data)

	clob, ok := rec["notes"].(coerce.Clob)
	require.True(t, ok)
	assert.False(t, clob.External())
	assert.Equal(t, "hello", clob.Data)
}

func TestResolveLeavesLargeObjectsExternal(t *testing.T) {
	dir := t.TempDir()
	writeObject(t, dir, "blob-big", make([]byte, 64))

	l := NewLoader(dir, 16, zap.NewNop())
	rec := map[string]coerce.Value{"payload": coerce.Blob{Ref: "blob-big"}}

	require.NoError(t, l.Resolve(rec))

	blob := rec["payload"].(coerce.Blob)
	assert.True(t, blob.External())
	assert.Equal(t, "blob-big", blob.Ref)
}

func TestResolveSkipsInlineAndNonLobValues(t *testing.T) {
	l := NewLoader(t.TempDir(), 0, zap.NewNop())
	rec := map[string]coerce.Value{
		"id":      coerce.Int(1),
		"payload": coerce.Blob{Data: []byte{0xFF}},
		"missing": nil,
	}

	require.NoError(t, l.Resolve(rec))
	assert.Equal(t, coerce.Blob{Data: []byte{0xFF}}, rec["payload"])
}

func TestResolveSurfacesStorageErrors(t *testing.T) {
	l := NewLoader(t.TempDir(), 0, zap.NewNop())
	rec := map[string]coerce.Value{"payload": coerce.Blob{Ref: "does-not-exist"}}

	err := l.Resolve(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload")
}
