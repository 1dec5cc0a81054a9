package logformat

import (
	"testing"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		MajorVersion:         MajorVersion,
		MinorVersion:         MinorVersion,
		FileIdentifier:       0xdeadbeef,
		NumPuts:              10,
		NumDeletes:           3,
		DataLen:              12345,
		MaxKeyLen:            64,
		MaxValueLen:          4096,
		DeleteSize:           30,
		PutSize:              900,
		CompressionType:      compressor.Zstd,
		CompressionBlockSize: 4096,
		NumEntries:           13,
		HeaderSize:           Size,
	}
	buf := h.Bytes()
	require.Len(t, buf, Size)

	var got Header
	require.NoError(t, got.Load(buf))
	require.Equal(t, h.FileIdentifier, got.FileIdentifier)
	require.Equal(t, h.NumPuts, got.NumPuts)
	require.Equal(t, h.NumDeletes, got.NumDeletes)
	require.Equal(t, h.DataLen, got.DataLen)
	require.Equal(t, h.CompressionType, got.CompressionType)
	require.Equal(t, h.CompressionBlockSize, got.CompressionBlockSize)
	require.Equal(t, h.NumPuts+h.NumDeletes, got.NumEntriesOf())
}

func TestHeaderRejectsWrongMagic(t *testing.T) {
	buf := make([]byte, Size)
	var h Header
	require.ErrorIs(t, h.Load(buf), sperrors.WrongLogMagicNumber)
}

func TestHeaderRejectsTooSmall(t *testing.T) {
	var h Header
	require.Error(t, h.Load(make([]byte, 10)))
}

func TestHeaderRejectsFutureMajorVersion(t *testing.T) {
	h := Header{MajorVersion: MajorVersion + 1, HeaderSize: Size}
	buf := h.Bytes()
	var got Header
	require.Error(t, got.Load(buf))
}
