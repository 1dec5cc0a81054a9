package hashreader

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/hashbuilder"
	"github.com/sparkeydb/sparkey/logreader"
	"github.com/sparkeydb/sparkey/logwriter"
	"github.com/stretchr/testify/require"
)

func buildPair(t *testing.T, n int, overrideCount int, deleteCount int) (logPath, hashPath string) {
	t.Helper()
	logPath = filepath.Join(t.TempDir(), "data.spl")
	w, err := logwriter.Create(logPath, compressor.None, 0)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, w.Put([]byte(fmt.Sprintf("k_%d", i)), []byte(fmt.Sprintf("value_%d", i))))
	}
	for i := 0; i < overrideCount; i++ {
		require.NoError(t, w.Put([]byte(fmt.Sprintf("k_%d", i)), []byte(fmt.Sprintf("newvalue_%d", i))))
	}
	for i := 0; i < deleteCount; i++ {
		require.NoError(t, w.Delete([]byte(fmt.Sprintf("k_%d", i))))
	}
	require.NoError(t, w.Close())

	hashPath = filepath.Join(filepath.Dir(logPath), "data.spi")
	require.NoError(t, hashbuilder.Build(logPath, hashPath, 0))
	return logPath, hashPath
}

func TestGetSingleKey(t *testing.T) {
	logPath, hashPath := buildPair(t, 1, 0, 0)
	r, err := Open(hashPath, logPath)
	require.NoError(t, err)
	defer r.Close()

	it := r.LogReader().NewIterator()
	require.NoError(t, r.Get([]byte("k_0"), it))
	require.Equal(t, logreader.StateActive, it.State())
	val := make([]byte, it.ValueLen())
	_, err = it.FillValue(val)
	require.NoError(t, err)
	require.Equal(t, "value_0", string(val))

	require.NoError(t, r.Get([]byte("k_missing"), it))
	require.Equal(t, logreader.StateInvalid, it.State())
}

func TestGetOverrides(t *testing.T) {
	logPath, hashPath := buildPair(t, 100, 5, 0)
	r, err := Open(hashPath, logPath)
	require.NoError(t, err)
	defer r.Close()

	it := r.LogReader().NewIterator()
	require.NoError(t, r.Get([]byte("k_0"), it))
	require.Equal(t, logreader.StateActive, it.State())
	val := make([]byte, it.ValueLen())
	_, err = it.FillValue(val)
	require.NoError(t, err)
	require.Equal(t, "newvalue_0", string(val))

	require.NoError(t, r.Get([]byte("k_50"), it))
	val = make([]byte, it.ValueLen())
	_, err = it.FillValue(val)
	require.NoError(t, err)
	require.Equal(t, "value_50", string(val))
}

func TestGetDeletesMaskPuts(t *testing.T) {
	logPath, hashPath := buildPair(t, 100, 0, 10)
	r, err := Open(hashPath, logPath)
	require.NoError(t, err)
	defer r.Close()

	it := r.LogReader().NewIterator()
	require.NoError(t, r.Get([]byte("k_0"), it))
	require.Equal(t, logreader.StateInvalid, it.State())

	require.NoError(t, r.Get([]byte("k_50"), it))
	require.Equal(t, logreader.StateActive, it.State())
}

func TestIdentifierMismatch(t *testing.T) {
	_, hashPath1 := buildPair(t, 5, 0, 0)
	logPath2, _ := buildPair(t, 5, 0, 0)

	_, err := Open(hashPath1, logPath2)
	require.Error(t, err)
}

func TestEmptyLog(t *testing.T) {
	logPath, hashPath := buildPair(t, 0, 0, 0)
	r, err := Open(hashPath, logPath)
	require.NoError(t, err)
	defer r.Close()

	it := r.LogReader().NewIterator()
	require.NoError(t, r.Get([]byte("anything"), it))
	require.Equal(t, logreader.StateInvalid, it.State())
}
