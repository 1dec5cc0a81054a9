// Package hashreader memory-maps a hash index alongside its log and
// resolves key lookups by probing. Grounded on
// bucketteer/read.go's pairing of a mmap'd index with comparisons
// against an underlying data source to resolve a candidate match.
package hashreader

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/mmap"

	"github.com/sparkeydb/sparkey/hashformat"
	"github.com/sparkeydb/sparkey/logreader"
	"github.com/sparkeydb/sparkey/mmaputil"
	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/valyala/bytebufferpool"
)

// Reader holds read-only mappings of a hash index and its paired log.
type Reader struct {
	ra     *mmap.ReaderAt
	header hashformat.Header
	log    *logreader.Reader
}

// Open validates and memory-maps the hash file at hashPath together with
// the log at logPath, checking that their file identifiers match.
func Open(hashPath, logPath string) (*Reader, error) {
	log, err := logreader.Open(logPath)
	if err != nil {
		return nil, err
	}

	ra, err := mmaputil.Open(hashPath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("%w: %v", sperrors.MmapFailed, err)
	}
	if ra.Len() < hashformat.Size {
		ra.Close()
		log.Close()
		return nil, sperrors.HashTooSmall
	}
	hbuf := make([]byte, hashformat.Size)
	if _, err := ra.ReadAt(hbuf, 0); err != nil {
		ra.Close()
		log.Close()
		return nil, fmt.Errorf("%w: %v", sperrors.Internal, err)
	}
	var h hashformat.Header
	if err := h.Load(hbuf); err != nil {
		ra.Close()
		log.Close()
		return nil, err
	}
	if h.FileIdentifier != log.Header().FileIdentifier {
		ra.Close()
		log.Close()
		return nil, sperrors.FileIdentifierMismatch
	}
	if int64(ra.Len()) < int64(hashformat.Size)+h.BodySize() {
		ra.Close()
		log.Close()
		return nil, sperrors.HashHeaderCorrupt
	}
	return &Reader{ra: ra, header: h, log: log}, nil
}

// Close unmaps both the hash index and its log.
func (r *Reader) Close() error {
	err1 := r.ra.Close()
	err2 := r.log.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// LogReader exposes the underlying log reader, e.g. so a caller can
// create further iterators against it directly.
func (r *Reader) LogReader() *logreader.Reader { return r.log }

// Get probes the index for key and, on a match, leaves it positioned on
// the live entry with its key already read, so a following
// FillValue/ValueChunk returns the value (a further Next would move past
// it). The iterator ends in StateActive on a hit and StateInvalid on a
// miss.
func (r *Reader) Get(key []byte, it *logreader.Iterator) error {
	h := r.header.TruncateHash(hashformat.HashKey(r.header.HashAlgorithm, r.header.HashSeed, key))
	capacity := r.header.Capacity
	slot0 := h % capacity

	slotBuf := bytebufferpool.Get()
	defer bytebufferpool.Put(slotBuf)
	slotBuf.B = append(slotBuf.B[:0], make([]byte, r.header.SlotWidth())...)

	keyBuf := bytebufferpool.Get()
	defer bytebufferpool.Put(keyBuf)

	maxProbes := r.header.MaxDisplacement + 1
	pos := slot0
	for i := uint64(0); i < maxProbes; i++ {
		off := r.header.SlotOffset(pos)
		if _, err := r.ra.ReadAt(slotBuf.B, off); err != nil {
			return fmt.Errorf("%w: %v", sperrors.Internal, err)
		}
		slot := r.header.GetSlot(slotBuf.B, 0)
		if slot.Empty() {
			it.MarkInvalid()
			return nil
		}
		if slot.Hash == h {
			matched, err := r.matches(it, slot.Address, key, keyBuf)
			if err != nil {
				return err
			}
			if matched {
				return nil
			}
		}
		pos = (pos + 1) % capacity
	}
	it.MarkInvalid()
	return nil
}

// matches seeks it to address, reads the entry's key, and compares it to
// want, leaving it ACTIVE on a match so the caller can read the value
// without a further seek.
func (r *Reader) matches(it *logreader.Iterator, address uint64, want []byte, scratch *bytebufferpool.ByteBuffer) (bool, error) {
	if err := it.Seek(r.log, address); err != nil {
		return false, err
	}
	if err := it.Next(); err != nil {
		return false, err
	}
	if it.State() != logreader.StateActive {
		return false, nil
	}
	scratch.B = append(scratch.B[:0], make([]byte, it.KeyLen())...)
	if _, err := it.FillKey(scratch.B); err != nil {
		return false, err
	}
	return bytes.Equal(scratch.B, want), nil
}
