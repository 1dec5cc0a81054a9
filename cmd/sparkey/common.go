package main

import (
	"os"

	"github.com/sparkeydb/sparkey/hashformat"
	"github.com/sparkeydb/sparkey/logformat"
)

// readHeaderBytes reads enough of path's prefix to parse either header
// shape, used by info's probe-both-headers workflow.
func readHeaderBytes(path string) ([]byte, error) {
	want := logformat.Size
	if hashformat.Size > want {
		want = hashformat.Size
	}
	buf := make([]byte, want)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}
