// Package hashbuilder scans a closed log and produces its hash index.
// Grounded on compactindexsized/build.go's shape: a Builder that streams
// a precomputed table to a temporary file and
// renames it into place on success, with golang.org/x/sys/unix.Fallocate
// used to pre-size the output the way fallocate_linux.go does for its
// bucket files.
package hashbuilder

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/sparkeydb/sparkey/continuity"
	"github.com/sparkeydb/sparkey/hashformat"
	"github.com/sparkeydb/sparkey/logreader"
	"github.com/sparkeydb/sparkey/sperrors"
)

// loadFactor bounds the average probe chain length; ≈0.73 is the target.
const loadFactor = 0.73

// LiveEntry tracks, per key, the outcome of the most recent entry seen
// for it during a log scan.
type LiveEntry struct {
	IsPut   bool
	Address uint64
	Value   []byte
}

// Build scans logPath once to determine which keys are still live, then
// writes a hash index to hashPath covering exactly those keys. capacityHint,
// if non-zero, is used as the slot count directly instead of deriving one
// from the live key count.
func Build(logPath, hashPath string, capacityHint uint64) error {
	lr, err := logreader.Open(logPath)
	if err != nil {
		return err
	}
	defer lr.Close()
	logHeader := lr.Header()

	live, order, err := ScanLiveness(lr)
	if err != nil {
		return err
	}

	var liveCount uint64
	for _, key := range order {
		if live[key].IsPut {
			liveCount++
		}
	}

	capacity := capacityHint
	if capacity == 0 {
		capacity = uint64(float64(liveCount)/loadFactor) + 1
	}

	algo, hashSize := hashformat.ChooseHashWidth(capacity)
	addrSize := hashformat.AddressWidth(logHeader.DataLen)

	h := hashformat.Header{
		MajorVersion:   hashformat.MajorVersion,
		MinorVersion:   hashformat.MinorVersion,
		FileIdentifier: logHeader.FileIdentifier,
		HashSeed:       rand.Uint64(),
		HashAlgorithm:  algo,
		Capacity:       capacity,
		EntryCount:     liveCount,
		AddressSize:    addrSize,
		HashSize:       hashSize,
		HeaderSize:     hashformat.Size,
	}

	slots := make([]hashformat.Slot, capacity)
	var maxDisplacement uint64
	for _, key := range order {
		e := live[key]
		if !e.IsPut {
			continue
		}
		hash := h.TruncateHash(hashformat.HashKey(algo, h.HashSeed, []byte(key)))
		d := insert(slots, capacity, hashformat.Slot{Hash: hash, Address: e.Address})
		if d > maxDisplacement {
			maxDisplacement = d
		}
	}
	h.MaxDisplacement = maxDisplacement

	return writeHashFile(hashPath, &h, slots)
}

// ScanLiveness performs a full log pass: record each key's most recent
// entry (put or delete) and the order in which keys first appeared, so a
// second pass (hash insertion or log rewriting) can proceed
// deterministically.
func ScanLiveness(lr *logreader.Reader) (map[string]LiveEntry, []string, error) {
	live := make(map[string]LiveEntry)
	var order []string

	it := lr.NewIterator()
	defer it.Close()
	for {
		if err := it.Next(); err != nil {
			return nil, nil, err
		}
		if it.State() == logreader.StateInvalid {
			break
		}
		key := make([]byte, it.KeyLen())
		if _, err := it.FillKey(key); err != nil {
			return nil, nil, err
		}
		ks := string(key)
		if _, seen := live[ks]; !seen {
			order = append(order, ks)
		}
		if it.EntryType() == logreader.EntryDelete {
			live[ks] = LiveEntry{IsPut: false}
			continue
		}
		val := make([]byte, it.ValueLen())
		if _, err := it.FillValue(val); err != nil {
			return nil, nil, err
		}
		live[ks] = LiveEntry{IsPut: true, Address: it.Address(), Value: val}
	}
	return live, order, nil
}

// insert places s into the slot table via Robin-Hood displacement
// probing, returning the maximum displacement incurred by any entry it
// places along the way (the carried entry may be swapped out and
// re-placed more than once before the loop terminates, and each of
// those placements needs its own displacement recorded, not just the
// last one). Because the caller only ever inserts the single surviving
// entry per live key (see Build), no two inserts ever collide on equal
// keys. A collision here is always between distinct keys sharing a
// truncated hash, so plain Robin-Hood swapping suffices without an
// overwrite or eviction case.
func insert(slots []hashformat.Slot, capacity uint64, s hashformat.Slot) uint64 {
	slot0 := s.Hash % capacity
	pos := slot0
	var displacement, maxDisplacement uint64
	for {
		if slots[pos].Empty() {
			slots[pos] = s
			if displacement > maxDisplacement {
				maxDisplacement = displacement
			}
			return maxDisplacement
		}
		occupantSlot0 := slots[pos].Hash % capacity
		occupantDisplacement := (pos + capacity - occupantSlot0) % capacity
		if occupantDisplacement < displacement {
			slots[pos], s = s, slots[pos]
			if displacement > maxDisplacement {
				maxDisplacement = displacement
			}
			displacement = occupantDisplacement
		}
		pos = (pos + 1) % capacity
		displacement++
	}
}

// writeHashFile streams the header and slot table to a temporary file in
// the same directory as hashPath, then renames it into place so readers
// never observe a partially written index.
func writeHashFile(hashPath string, h *hashformat.Header, slots []hashformat.Slot) error {
	dir := filepath.Dir(hashPath)
	tmp, err := os.CreateTemp(dir, ".sparkey-hash-*")
	if err != nil {
		return sperrors.FromCreateErrno(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := preallocate(tmp, int64(hashformat.Size)+h.BodySize()); err != nil {
		tmp.Close()
		return err
	}

	if _, err := tmp.Write(h.Bytes()); err != nil {
		tmp.Close()
		return sperrors.Internal
	}

	body := make([]byte, h.BodySize())
	for i, s := range slots {
		h.PutSlot(body, int(i)*h.SlotWidth(), s)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return sperrors.Internal
	}

	chain := continuity.New().
		Thenf("close temp file", tmp.Close).
		Thenf("rename into place", func() error { return os.Rename(tmpPath, hashPath) })
	if err := chain.Err(); err != nil {
		return sperrors.Internal
	}
	return nil
}
