package logreader

import (
	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/logformat"
	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/sparkeydb/sparkey/vlq"
)

// State is one of the four iterator lifecycle states.
type State int

const (
	StateNew State = iota
	StateActive
	StateInvalid
	StateClosed
)

// EntryType distinguishes a put from a delete at the current position.
type EntryType int

const (
	EntryPut EntryType = iota
	EntryDelete
)

// Iterator walks the entry stream of one Reader. It is not safe for
// concurrent use and must not outlive its Reader.
type Iterator struct {
	r     *Reader
	state State

	entryType    EntryType
	entryAddress uint64
	keyLen       uint64
	valueLen     uint64
	keyRead      uint64
	valueRead    uint64

	// uncompressed mode: absolute file offsets.
	nextAddr    uint64
	keyAbsOff   uint64
	valueAbsOff uint64

	// compressed mode: decompressed current frame plus cursor.
	block           []byte
	blockPos        int
	keyBlockOff     int
	valueBlockOff   int
	curFrameOffset  uint64
	nextFrameOffset uint64
}

func (it *Iterator) reset() {
	it.state = StateNew
	it.nextAddr = uint64(logformat.Size)
	it.nextFrameOffset = uint64(logformat.Size)
	it.block = nil
	it.blockPos = 0
}

// State reports the iterator's current lifecycle state.
func (it *Iterator) State() State { return it.state }

// MarkInvalid forces the iterator into INVALID directly, used by the
// hash reader on a probe miss (empty slot or exhausted probe bound)
// where there is no entry to seek to.
func (it *Iterator) MarkInvalid() { it.state = StateInvalid }

// EntryType reports whether the current (ACTIVE) entry is a put or
// delete.
func (it *Iterator) EntryType() EntryType { return it.entryType }

// KeyLen and ValueLen report the current entry's field lengths.
func (it *Iterator) KeyLen() uint64   { return it.keyLen }
func (it *Iterator) ValueLen() uint64 { return it.valueLen }

// Address returns the log address of the current entry's start, the
// value a hash index stores for a put: the absolute file offset in an
// uncompressed log, or frame file offset * block size + offset within
// the decompressed frame in a compressed one.
func (it *Iterator) Address() uint64 { return it.entryAddress }

func (it *Iterator) checkReader(r *Reader) error {
	if it.r != r {
		return sperrors.LogIteratorMismatch
	}
	return nil
}

// Next advances the iterator to the next entry, or to INVALID at
// end-of-stream.
func (it *Iterator) Next() error {
	if it.state == StateClosed {
		return sperrors.LogIteratorClosed
	}
	it.keyRead, it.valueRead = 0, 0
	if it.r.header.CompressionType == compressor.None {
		return it.nextUncompressed()
	}
	return it.nextCompressed()
}

func (it *Iterator) nextUncompressed() error {
	addr := it.nextAddr
	end := it.r.bodyEnd()
	if addr >= end {
		it.state = StateInvalid
		return nil
	}

	hdr := make([]byte, 2*vlq.MaxLen)
	avail := end - addr
	if uint64(len(hdr)) > avail {
		hdr = hdr[:avail]
	}
	n, err := it.r.readAt(hdr, int64(addr))
	if err != nil {
		return err
	}
	hdr = hdr[:n]

	pos := 0
	v1, err := vlq.Read(hdr, &pos)
	if err != nil {
		return err
	}
	v2, err := vlq.Read(hdr, &pos)
	if err != nil {
		return err
	}

	it.entryType, it.valueLen = decodeTypeAndLen(v1)
	it.keyLen = v2
	it.entryAddress = addr
	it.keyAbsOff = addr + uint64(pos)
	it.valueAbsOff = it.keyAbsOff + it.keyLen
	it.nextAddr = it.valueAbsOff + it.valueLen
	it.state = StateActive
	return nil
}

func (it *Iterator) nextCompressed() error {
	for it.block == nil || it.blockPos >= len(it.block) {
		if it.nextFrameOffset >= it.r.bodyEnd() {
			it.state = StateInvalid
			return nil
		}
		if err := it.loadFrame(it.nextFrameOffset); err != nil {
			return err
		}
	}

	pos := it.blockPos
	v1, err := vlq.Read(it.block, &pos)
	if err != nil {
		return err
	}
	v2, err := vlq.Read(it.block, &pos)
	if err != nil {
		return err
	}

	entryType, valueLen := decodeTypeAndLen(v1)
	keyLen := v2
	blockSize := uint64(it.r.header.CompressionBlockSize)

	it.entryType = entryType
	it.valueLen = valueLen
	it.keyLen = keyLen
	it.entryAddress = it.curFrameOffset*blockSize + uint64(it.blockPos)
	it.keyBlockOff = pos
	it.valueBlockOff = pos + int(keyLen)
	it.blockPos = it.valueBlockOff + int(valueLen)
	it.state = StateActive
	return nil
}

func decodeTypeAndLen(v1 uint64) (EntryType, uint64) {
	if v1 == 0 {
		return EntryDelete, 0
	}
	return EntryPut, v1 - 1
}

// loadFrame reads and decompresses the frame starting at the VLQ length
// prefix located at file offset fileOff.
func (it *Iterator) loadFrame(fileOff uint64) error {
	lenBuf := make([]byte, vlq.MaxLen)
	end := it.r.bodyEnd()
	avail := end - fileOff
	if uint64(len(lenBuf)) > avail {
		lenBuf = lenBuf[:avail]
	}
	n, err := it.r.readAt(lenBuf, int64(fileOff))
	if err != nil {
		return err
	}
	pos := 0
	clen, err := vlq.Read(lenBuf[:n], &pos)
	if err != nil {
		return err
	}
	compStart := fileOff + uint64(pos)

	compBuf := make([]byte, clen)
	if _, err := it.r.readAt(compBuf, int64(compStart)); err != nil {
		return err
	}

	dst := make([]byte, 0, it.r.header.CompressionBlockSize)
	decoded, err := it.r.codec.Decompress(dst, compBuf)
	if err != nil {
		return sperrors.Internal
	}

	it.block = decoded
	it.blockPos = 0
	it.curFrameOffset = fileOff
	it.nextFrameOffset = compStart + clen
	return nil
}

// FillKey copies up to len(dst) bytes of the current entry's key,
// starting from wherever a previous FillKey call on this entry left off.
// Returns the number of bytes copied; 0 means the key is fully drained.
func (it *Iterator) FillKey(dst []byte) (int, error) {
	if it.state != StateActive {
		return 0, sperrors.LogIteratorInactive
	}
	remaining := it.keyLen - it.keyRead
	want := uint64(len(dst))
	if want > remaining {
		want = remaining
	}
	if want == 0 {
		return 0, nil
	}
	var n int
	var err error
	if it.r.header.CompressionType == compressor.None {
		n, err = it.r.readAt(dst[:want], int64(it.keyAbsOff+it.keyRead))
	} else {
		n = copy(dst[:want], it.block[it.keyBlockOff+int(it.keyRead):])
	}
	if err != nil {
		return n, err
	}
	it.keyRead += uint64(n)
	return n, nil
}

// FillValue copies up to len(dst) bytes of the current entry's value, in
// the order they appear after the key. Must not be called before the key
// has been fully drained by FillKey.
func (it *Iterator) FillValue(dst []byte) (int, error) {
	if it.state != StateActive {
		return 0, sperrors.LogIteratorInactive
	}
	remaining := it.valueLen - it.valueRead
	want := uint64(len(dst))
	if want > remaining {
		want = remaining
	}
	if want == 0 {
		return 0, nil
	}
	var n int
	var err error
	if it.r.header.CompressionType == compressor.None {
		n, err = it.r.readAt(dst[:want], int64(it.valueAbsOff+it.valueRead))
	} else {
		n = copy(dst[:want], it.block[it.valueBlockOff+int(it.valueRead):])
	}
	if err != nil {
		return n, err
	}
	it.valueRead += uint64(n)
	return n, nil
}

// ValueChunk returns up to maxLen undrained value bytes. A returned
// length of 0 means the value is fully drained. The bytes are always a
// copy in a freshly allocated slice (read from the mapping, or taken
// from the decompressed block via FillValue in compressed mode); no
// zero-copy view into the mapping is returned.
func (it *Iterator) ValueChunk(maxLen int) ([]byte, error) {
	if it.state != StateActive {
		return nil, sperrors.LogIteratorInactive
	}
	remaining := it.valueLen - it.valueRead
	if remaining == 0 {
		return nil, nil
	}
	want := uint64(maxLen)
	if want > remaining {
		want = remaining
	}
	if it.r.header.CompressionType != compressor.None {
		buf := make([]byte, want)
		n, err := it.FillValue(buf)
		return buf[:n], err
	}

	buf := make([]byte, want)
	n, err := it.r.readAt(buf, int64(it.valueAbsOff+it.valueRead))
	if err != nil {
		return nil, err
	}
	it.valueRead += uint64(n)
	return buf[:n], nil
}

// Seek positions the iterator so the next Next call parses the entry
// starting at address. Used by the hash reader to resolve a slot.
func (it *Iterator) Seek(r *Reader, address uint64) error {
	if err := it.checkReader(r); err != nil {
		return err
	}
	if it.r.header.CompressionType == compressor.None {
		it.nextAddr = address
		it.state = StateNew
		return nil
	}

	blockSize := uint64(it.r.header.CompressionBlockSize)
	frameOffset := address / blockSize
	intraOffset := address % blockSize
	if err := it.loadFrame(frameOffset); err != nil {
		return err
	}
	it.blockPos = int(intraOffset)
	it.state = StateNew
	return nil
}

// Close releases the iterator. Further use returns LogIteratorClosed.
func (it *Iterator) Close() error {
	it.state = StateClosed
	it.block = nil
	return nil
}
