package filenames

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFromIndex(t *testing.T) {
	got, err := LogFromIndex("data.spi")
	require.NoError(t, err)
	require.Equal(t, "data.spl", got)
}

func TestIndexFromLog(t *testing.T) {
	got, err := IndexFromLog("data.spl")
	require.NoError(t, err)
	require.Equal(t, "data.spi", got)
}

func TestRejectsWrongSuffix(t *testing.T) {
	_, err := LogFromIndex("data.txt")
	require.Error(t, err)
}

func TestRejectsTooShort(t *testing.T) {
	_, err := LogFromIndex("i")
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	idx := "/var/lib/store/shard-0001.spi"
	log, err := LogFromIndex(idx)
	require.NoError(t, err)
	back, err := IndexFromLog(log)
	require.NoError(t, err)
	require.Equal(t, idx, back)
}
