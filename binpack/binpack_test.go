package binpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripWidths(t *testing.T) {
	for width := 1; width <= 8; width++ {
		max := uint64(1)<<(8*width) - 1
		if width == 8 {
			max = ^uint64(0)
		}
		for _, v := range []uint64{0, 1, max / 2, max} {
			buf := make([]byte, width)
			PutUintLE(buf, v)
			require.Equal(t, v, UintLE(buf), "width=%d v=%d", width, v)
		}
	}
}
