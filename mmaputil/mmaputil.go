// Package mmaputil memory-maps a file read-only for sparkey's reader
// side. Grounded on bucketteer/read.go's OpenMMAP, which advises the
// kernel that access will be random (FADV_RANDOM) before handing a
// reader to its caller; both the log and hash readers access pages in
// essentially random order (probing and seeking), so the same hint
// applies to both.
package mmaputil

import "golang.org/x/exp/mmap"

// Open memory-maps path read-only, applying a random-access readahead
// hint before mapping.
func Open(path string) (*mmap.ReaderAt, error) {
	adviseRandom(path)
	return mmap.Open(path)
}
