// Package logwriter appends put/delete entries to a sparkey log file,
// optionally routing them through a block compressor, and finalizes the
// log header on close. Structured after
// compactindexsized/build.go's single-owner, streaming-writer shape:
// sequential writes to an *os.File, a staging buffer reused across
// entries, and header rewrite as the last step of Close.
package logwriter

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/continuity"
	"github.com/sparkeydb/sparkey/logformat"
	"github.com/sparkeydb/sparkey/sperrors"
	"github.com/sparkeydb/sparkey/vlq"
)

// defaultBlockSize is used when a caller asks for compression without
// specifying a block size.
const defaultBlockSize = 4096

// Writer owns exclusive append access to one log file. The zero value
// is not usable; construct with Create or Append.
type Writer struct {
	f        *os.File
	header   logformat.Header
	codec    compressor.Codec
	block    []byte // current block's accumulated entry bytes
	compBuf  []byte // staging buffer for compress() output
	poisoned error
	closed   bool

	vlqBuf [vlq.MaxLen]byte
}

// Create starts a brand new log file at path with the given compression
// type and block size (ignored when typ is compressor.None). A random
// file identifier is assigned for pairing with a future hash index.
func Create(path string, typ compressor.Type, blockSize uint32) (*Writer, error) {
	codec, err := compressor.Get(typ)
	if err != nil {
		return nil, err
	}
	if typ != compressor.None {
		if blockSize == 0 {
			blockSize = defaultBlockSize
		}
		if blockSize < 16 || blockSize > 1<<30 {
			return nil, fmt.Errorf("%w: %d", sperrors.InvalidCompressionBlockSize, blockSize)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, sperrors.FromCreateErrno(err)
	}

	w := &Writer{
		f:     f,
		codec: codec,
		header: logformat.Header{
			MajorVersion:         logformat.MajorVersion,
			MinorVersion:         logformat.MinorVersion,
			FileIdentifier:       rand.Uint32(),
			CompressionType:      typ,
			CompressionBlockSize: blockSize,
			HeaderSize:           logformat.Size,
		},
	}
	if typ != compressor.None {
		w.compBuf = make([]byte, codec.MaxCompressedSize(int(blockSize))+vlq.MaxLen)
	}

	if _, err := f.Write(w.header.Bytes()); err != nil {
		f.Close()
		return nil, sperrors.Internal
	}
	return w, nil
}

// Append reopens an existing log for continued writing, positioning the
// stream at the end of the current body. A compressed log always starts
// a *fresh* block on reopen rather than resuming the half-written tail
// block.
func Append(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, sperrors.FromOpenErrno(err)
	}
	buf := make([]byte, logformat.Size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", sperrors.LogHeaderCorrupt, err)
	}
	var h logformat.Header
	if err := h.Load(buf); err != nil {
		f.Close()
		return nil, err
	}
	codec, err := compressor.Get(h.CompressionType)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(int64(logformat.Size)+int64(h.DataLen), 0); err != nil {
		f.Close()
		return nil, sperrors.Internal
	}
	w := &Writer{f: f, codec: codec, header: h}
	if h.CompressionType != compressor.None {
		w.compBuf = make([]byte, codec.MaxCompressedSize(int(h.CompressionBlockSize))+vlq.MaxLen)
	}
	return w, nil
}

// Put appends VLQ(valuelen+1)·VLQ(keylen)·key·value as a new entry.
func (w *Writer) Put(key, value []byte) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	n1 := vlq.Size(uint64(len(value)) + 1)
	n2 := vlq.Size(uint64(len(key)))
	entry := make([]byte, 0, n1+n2+len(key)+len(value))
	entry = appendVLQ(entry, uint64(len(value))+1)
	entry = appendVLQ(entry, uint64(len(key)))
	entry = append(entry, key...)
	entry = append(entry, value...)

	if err := w.writeEntry(entry); err != nil {
		return err
	}
	w.header.NumPuts++
	w.header.PutSize += uint64(n1 + n2)
	w.bumpMaxLens(len(key), len(value))
	return nil
}

// Delete appends VLQ(0)·VLQ(keylen)·key as a tombstone entry.
func (w *Writer) Delete(key []byte) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	n1 := vlq.Size(0)
	n2 := vlq.Size(uint64(len(key)))
	entry := make([]byte, 0, n1+n2+len(key))
	entry = appendVLQ(entry, 0)
	entry = appendVLQ(entry, uint64(len(key)))
	entry = append(entry, key...)

	if err := w.writeEntry(entry); err != nil {
		return err
	}
	w.header.NumDeletes++
	w.header.DeleteSize += uint64(n1 + n2)
	w.bumpMaxLens(len(key), 0)
	return nil
}

func (w *Writer) bumpMaxLens(keyLen, valueLen int) {
	if uint64(keyLen) > w.header.MaxKeyLen {
		w.header.MaxKeyLen = uint64(keyLen)
	}
	if uint64(valueLen) > w.header.MaxValueLen {
		w.header.MaxValueLen = uint64(valueLen)
	}
}

// writeEntry flushes before writing an entry that would overflow the
// block buffer, unless the entry itself is larger than one block, in
// which case the block grows
// to hold it in isolation.
func (w *Writer) writeEntry(entry []byte) error {
	if w.header.CompressionType == compressor.None {
		n, err := w.f.Write(entry)
		if err != nil {
			return w.poison(err)
		}
		w.header.DataLen += uint64(n)
		return nil
	}

	blockSize := int(w.header.CompressionBlockSize)
	if len(w.block) > 0 && len(w.block)+len(entry) > blockSize {
		if err := w.flushBlock(); err != nil {
			return err
		}
	}
	w.block = append(w.block, entry...)
	if len(w.block) >= blockSize {
		return w.flushBlock()
	}
	return nil
}

func (w *Writer) flushBlock() error {
	if len(w.block) == 0 {
		return nil
	}
	need := w.codec.MaxCompressedSize(len(w.block))
	if need > len(w.compBuf) {
		w.compBuf = make([]byte, need+vlq.MaxLen)
	}
	compressed, err := w.codec.Compress(w.compBuf, w.block)
	if err != nil {
		return w.poison(err)
	}

	frame := make([]byte, 0, vlq.MaxLen+len(compressed))
	frame = appendVLQ(frame, uint64(len(compressed)))
	frame = append(frame, compressed...)

	n, err := w.f.Write(frame)
	if err != nil {
		return w.poison(err)
	}
	w.header.DataLen += uint64(n)
	w.block = w.block[:0]
	return nil
}

// Flush writes out the current block (compressed modes only; a no-op
// under NONE since every write already lands on disk).
func (w *Writer) Flush() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	return w.flushBlock()
}

// Close flushes any pending block and rewrites the header with final
// counters, chaining both steps so the first failure short-circuits the
// rest while still attempting to release the descriptor.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.header.NumEntries = w.header.NumEntriesOf()

	chain := continuity.New().
		Thenf("flush final block", w.flushBlock).
		Thenf("rewrite header", func() error {
			_, err := w.f.WriteAt(w.header.Bytes(), 0)
			return err
		})
	err := chain.Err()
	if closeErr := w.f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		w.poisoned = sperrors.LogClosed
		return fmt.Errorf("%w: %v", sperrors.Internal, err)
	}
	return nil
}

func (w *Writer) checkOpen() error {
	if w.closed || w.poisoned != nil {
		return sperrors.LogClosed
	}
	return nil
}

func (w *Writer) poison(err error) error {
	w.poisoned = err
	return fmt.Errorf("%w: %v", sperrors.Internal, err)
}

func appendVLQ(dst []byte, v uint64) []byte {
	var buf [vlq.MaxLen]byte
	n := vlq.Write(buf[:], v)
	return append(dst, buf[:n]...)
}
