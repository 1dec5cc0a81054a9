package vlq

import (
	"testing"

	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/src/testvlq.c: write-then-read must be the
// identity for every representable value, including the domain edges.
func TestRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 63, 64, 65, 127, 128, 129,
		1 << 13, 1<<13 - 1, 1 << 20, 1<<21 - 1,
		1 << 28, 1 << 35, 1 << 42, 1 << 49, 1 << 56, 1 << 63,
		^uint64(0), ^uint64(0) - 1,
	}
	for _, v := range values {
		buf := make([]byte, MaxLen)
		n := Write(buf, v)
		require.Equal(t, Size(v), n)
		require.LessOrEqual(t, n, MaxLen)

		pos := 0
		got, err := Read(buf[:n], &pos)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, pos)
	}
}

func TestRoundTripSequential(t *testing.T) {
	buf := make([]byte, 0, 1<<16)
	scratch := make([]byte, MaxLen)
	var want []uint64
	for v := uint64(0); v < 5000; v += 17 {
		want = append(want, v)
		n := Write(scratch, v)
		buf = append(buf, scratch[:n]...)
	}
	pos := 0
	for _, v := range want {
		got, err := Read(buf, &pos)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
	require.Equal(t, len(buf), pos)
}

func TestReadTruncatedIsUnexpectedEOF(t *testing.T) {
	scratch := make([]byte, MaxLen)
	n := Write(scratch, 1<<40)
	require.Greater(t, n, 1)

	pos := 0
	_, err := Read(scratch[:n-1], &pos)
	require.ErrorIs(t, err, sperrors.UnexpectedEOF)
}

func TestReadEmptyIsUnexpectedEOF(t *testing.T) {
	pos := 0
	_, err := Read(nil, &pos)
	require.ErrorIs(t, err, sperrors.UnexpectedEOF)
}

func TestWriteZeroIsOneByte(t *testing.T) {
	buf := make([]byte, MaxLen)
	n := Write(buf, 0)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0), buf[0])
}
