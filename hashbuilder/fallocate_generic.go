//go:build !linux

package hashbuilder

import "os"

// preallocate falls back to a plain truncate on platforms without
// fallocate(2), matching compactindexsized/fallocate_generic.go.
func preallocate(f *os.File, size int64) error {
	return f.Truncate(size)
}
