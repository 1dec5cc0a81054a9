//go:build linux

package hashbuilder

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves size bytes for f starting at offset 0, so the
// builder's sequential writes never hit a slow hole-filling path.
// Grounded on compactindexsized/fallocate_linux.go, ported to
// golang.org/x/sys/unix per this module's shared syscall surface.
func preallocate(f *os.File, size int64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err != nil {
		return fmt.Errorf("fallocate: %w", err)
	}
	return nil
}
