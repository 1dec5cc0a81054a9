//go:build linux

package mmaputil

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseRandom opens path just long enough to hint the kernel that
// subsequent access will be random, matching FADV_RANDOM's effect on
// mmap page-fault readahead. Best-effort: a failure here never blocks
// the caller from mapping the file.
func adviseRandom(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
