package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	uri, err := s.Put(context.Background(), "salesstat-abc.csv", []byte("a,b,c\n"), "text/csv")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(uri, "file://"))
	path := strings.TrimPrefix(uri, "file://")
	assert.Equal(t, filepath.Join(dir, "salesstat-abc.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n", string(data))
}

func TestNewLocalStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	_, err := NewLocalStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
