package hashbuilder

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/hashformat"
	"github.com/sparkeydb/sparkey/logwriter"
	"github.com/stretchr/testify/require"
)

func buildLog(t *testing.T, n int, overrides, deletes int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := logwriter.Create(path, compressor.None, 0)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, w.Put([]byte(fmt.Sprintf("k_%d", i)), []byte(fmt.Sprintf("value_%d", i))))
	}
	for i := 0; i < overrides; i++ {
		require.NoError(t, w.Put([]byte(fmt.Sprintf("k_%d", i)), []byte(fmt.Sprintf("newvalue_%d", i))))
	}
	for i := 0; i < deletes; i++ {
		require.NoError(t, w.Delete([]byte(fmt.Sprintf("k_%d", i))))
	}
	require.NoError(t, w.Close())
	return path
}

func TestBuildProducesValidHeader(t *testing.T) {
	logPath := buildLog(t, 100, 5, 0)
	hashPath := filepath.Join(filepath.Dir(logPath), "data.spi")
	require.NoError(t, Build(logPath, hashPath, 0))

	buf, err := os.ReadFile(hashPath)
	require.NoError(t, err)
	var h hashformat.Header
	require.NoError(t, h.Load(buf))
	require.Equal(t, uint64(100), h.EntryCount)
	require.True(t, h.Capacity >= 100)
}

func TestBuildEmptyLog(t *testing.T) {
	logPath := buildLog(t, 0, 0, 0)
	hashPath := filepath.Join(filepath.Dir(logPath), "data.spi")
	require.NoError(t, Build(logPath, hashPath, 0))

	buf, err := os.ReadFile(hashPath)
	require.NoError(t, err)
	var h hashformat.Header
	require.NoError(t, h.Load(buf))
	require.Equal(t, uint64(0), h.EntryCount)
}
