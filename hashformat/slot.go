package hashformat

import "github.com/sparkeydb/sparkey/binpack"

// Slot is the decoded form of one hash-table entry: a truncated key hash
// paired with the byte address of that key's latest put in the log. An
// Address of 0 marks an empty slot. Valid log addresses always start
// past the 84-byte log header, so 0 can never be a legitimate entry
// address.
type Slot struct {
	Hash    uint64
	Address uint64
}

func (s Slot) Empty() bool { return s.Address == 0 }

// PutSlot packs s into buf[off:off+h.SlotWidth()] as (hash: H bytes LE,
// address: A bytes LE).
func (h *Header) PutSlot(buf []byte, off int, s Slot) {
	w := h.SlotWidth()
	binpack.PutUintLE(buf[off:off+int(h.HashSize)], s.Hash)
	binpack.PutUintLE(buf[off+int(h.HashSize):off+w], s.Address)
}

// GetSlot unpacks the slot at buf[off:off+h.SlotWidth()].
func (h *Header) GetSlot(buf []byte, off int) Slot {
	return Slot{
		Hash:    binpack.UintLE(buf[off : off+int(h.HashSize)]),
		Address: binpack.UintLE(buf[off+int(h.HashSize) : off+h.SlotWidth()]),
	}
}

// SlotOffset returns the byte offset (from the start of the file) of
// slot index i.
func (h *Header) SlotOffset(i uint64) int64 {
	return int64(h.HeaderSize) + int64(i)*int64(h.SlotWidth())
}

// BodySize returns the total size of the packed slot table, in bytes.
func (h *Header) BodySize() int64 {
	return int64(h.Capacity) * int64(h.SlotWidth())
}

// TruncateHash masks a full-width hash down to HashSize bytes, the form
// stored in a slot.
func (h *Header) TruncateHash(full uint64) uint64 {
	if h.HashSize >= 8 {
		return full
	}
	return full & (uint64(1)<<(8*h.HashSize) - 1)
}

// AddressWidth computes the minimal byte-aligned address width that can
// represent a log body of dataLen bytes, clamped to [4,8].
func AddressWidth(dataLen uint64) uint8 {
	width := uint8(4)
	for width < 8 {
		if dataLen < (uint64(1) << (8 * width)) {
			break
		}
		width++
	}
	return width
}
