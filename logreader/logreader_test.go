package logreader

import (
	"path/filepath"
	"testing"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/logwriter"
	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, typ compressor.Type, blockSize uint32, puts, deletes [][2]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.spl")
	w, err := logwriter.Create(path, typ, blockSize)
	require.NoError(t, err)
	for _, kv := range puts {
		require.NoError(t, w.Put([]byte(kv[0]), []byte(kv[1])))
	}
	for _, kv := range deletes {
		require.NoError(t, w.Delete([]byte(kv[0])))
	}
	require.NoError(t, w.Close())
	return path
}

func drain(t *testing.T, it *Iterator) (keys, values []string, types []EntryType) {
	t.Helper()
	for {
		require.NoError(t, it.Next())
		if it.State() == StateInvalid {
			return
		}
		key := make([]byte, it.KeyLen())
		_, err := it.FillKey(key)
		require.NoError(t, err)
		val := make([]byte, it.ValueLen())
		_, err = it.FillValue(val)
		require.NoError(t, err)
		keys = append(keys, string(key))
		values = append(values, string(val))
		types = append(types, it.EntryType())
	}
}

func TestEmptyLogIsImmediatelyInvalid(t *testing.T) {
	path := writeLog(t, compressor.None, 0, nil, nil)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	it := r.NewIterator()
	require.NoError(t, it.Next())
	require.Equal(t, StateInvalid, it.State())
}

func TestRoundTripUncompressed(t *testing.T) {
	puts := [][2]string{{"k_0", "v_0"}, {"k_1", "v_1"}}
	path := writeLog(t, compressor.None, 0, puts, [][2]string{{"k_2", ""}})
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	it := r.NewIterator()
	keys, values, types := drain(t, it)
	require.Equal(t, []string{"k_0", "k_1", "k_2"}, keys)
	require.Equal(t, []string{"v_0", "v_1", ""}, values)
	require.Equal(t, []EntryType{EntryPut, EntryPut, EntryDelete}, types)
}

func TestRoundTripCompressed(t *testing.T) {
	var puts [][2]string
	for i := 0; i < 200; i++ {
		puts = append(puts, [2]string{"key-" + string(rune('a'+i%26)), "a value that is long enough to matter"})
	}
	path := writeLog(t, compressor.Snappy, 128, puts, nil)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	it := r.NewIterator()
	keys, values, _ := drain(t, it)
	require.Len(t, keys, len(puts))
	for i := range puts {
		require.Equal(t, puts[i][0], keys[i])
		require.Equal(t, puts[i][1], values[i])
	}
}

func TestSeekUncompressed(t *testing.T) {
	puts := [][2]string{{"a", "1"}, {"bb", "22"}, {"ccc", "333"}}
	path := writeLog(t, compressor.None, 0, puts, nil)
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	scan := r.NewIterator()
	var addrs []uint64
	for {
		require.NoError(t, scan.Next())
		if scan.State() == StateInvalid {
			break
		}
		addrs = append(addrs, scan.Address())
	}
	require.Len(t, addrs, 3)

	it := r.NewIterator()
	require.NoError(t, it.Seek(r, addrs[1]))
	require.NoError(t, it.Next())
	require.Equal(t, StateActive, it.State())
	key := make([]byte, it.KeyLen())
	_, err = it.FillKey(key)
	require.NoError(t, err)
	require.Equal(t, "bb", string(key))
}

func TestIteratorMismatch(t *testing.T) {
	path1 := writeLog(t, compressor.None, 0, [][2]string{{"a", "1"}}, nil)
	path2 := writeLog(t, compressor.None, 0, [][2]string{{"a", "1"}}, nil)
	r1, err := Open(path1)
	require.NoError(t, err)
	defer r1.Close()
	r2, err := Open(path2)
	require.NoError(t, err)
	defer r2.Close()

	it := r1.NewIterator()
	require.ErrorIs(t, it.Seek(r2, uint64(0)), sperrors.LogIteratorMismatch)
}
