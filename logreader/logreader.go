// Package logreader memory-maps a sparkey log for read-only sequential
// and random access. The reader itself only owns the
// mapping and parsed header; all positional state lives in an Iterator
// so many iterators can share one mapping, mirroring bucketteer's
// read.go split between a shared mmap'd Reader and per-call cursors.
package logreader

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/logformat"
	"github.com/sparkeydb/sparkey/mmaputil"
	"github.com/sparkeydb/sparkey/sperrors"
)

// Reader holds a read-only memory mapping of one closed log file.
type Reader struct {
	ra     *mmap.ReaderAt
	header logformat.Header
	codec  compressor.Codec
}

// Open memory-maps path and validates its header.
func Open(path string) (*Reader, error) {
	ra, err := mmaputil.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sperrors.MmapFailed, err)
	}
	if ra.Len() < logformat.Size {
		ra.Close()
		return nil, sperrors.LogTooSmall
	}
	hbuf := make([]byte, logformat.Size)
	if _, err := ra.ReadAt(hbuf, 0); err != nil {
		ra.Close()
		return nil, fmt.Errorf("%w: %v", sperrors.Internal, err)
	}
	var h logformat.Header
	if err := h.Load(hbuf); err != nil {
		ra.Close()
		return nil, err
	}
	codec, err := compressor.Get(h.CompressionType)
	if err != nil {
		ra.Close()
		return nil, err
	}
	if int64(ra.Len()) < int64(logformat.Size)+int64(h.DataLen) {
		ra.Close()
		return nil, sperrors.LogHeaderCorrupt
	}
	return &Reader{ra: ra, header: h, codec: codec}, nil
}

// Header returns the parsed log header.
func (r *Reader) Header() logformat.Header { return r.header }

// Close unmaps the log. All iterators created from this reader become
// invalid to use afterward.
func (r *Reader) Close() error { return r.ra.Close() }

// readAt reads len(buf) bytes starting at off, tolerating a short read at
// end-of-file (io.EOF) by returning however many bytes were actually
// available.
func (r *Reader) readAt(buf []byte, off int64) (int, error) {
	n, err := r.ra.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", sperrors.Internal, err)
	}
	return n, nil
}

// bodyEnd is the absolute file offset one past the last valid byte of the
// log body.
func (r *Reader) bodyEnd() uint64 {
	return uint64(logformat.Size) + r.header.DataLen
}

// NewIterator returns a fresh NEW-state iterator bound to this reader.
func (r *Reader) NewIterator() *Iterator {
	it := &Iterator{r: r}
	it.reset()
	return it
}
