package logwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/logformat"
	"github.com/stretchr/testify/require"
)

func TestCreatePutCloseHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := Create(path, compressor.None, 0)
	require.NoError(t, err)

	require.NoError(t, w.Put([]byte("k_0"), []byte("v_0")))
	require.NoError(t, w.Delete([]byte("k_1")))
	require.NoError(t, w.Close())

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	var h logformat.Header
	require.NoError(t, h.Load(buf))
	require.Equal(t, uint64(1), h.NumPuts)
	require.Equal(t, uint64(1), h.NumDeletes)
	require.Equal(t, uint64(2), h.NumEntriesOf())
	require.Equal(t, uint64(2), h.NumEntries)
}

func TestClosedWriterRejectsOps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := Create(path, compressor.None, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Error(t, w.Put([]byte("a"), []byte("b")))
}

func TestCompressedWriterFlushesBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := Create(path, compressor.Snappy, 64)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, w.Put([]byte("key"), []byte("a-reasonably-long-value-to-force-multiple-blocks")))
	}
	require.NoError(t, w.Close())

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	var h logformat.Header
	require.NoError(t, h.Load(buf))
	require.Equal(t, uint64(50), h.NumPuts)
	require.True(t, h.DataLen > 0)
}

func TestAppendContinuesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := Create(path, compressor.None, 0)
	require.NoError(t, err)
	require.NoError(t, w.Put([]byte("a"), []byte("1")))
	require.NoError(t, w.Close())

	w2, err := Append(path)
	require.NoError(t, err)
	require.NoError(t, w2.Put([]byte("b"), []byte("2")))
	require.NoError(t, w2.Close())

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	var h logformat.Header
	require.NoError(t, h.Load(buf))
	require.Equal(t, uint64(2), h.NumPuts)
}
