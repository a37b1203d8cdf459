// Package chunk implements the fixed-size memory arenas that back the
// search corpus. Every deduplicated line lives at a stable address inside
// exactly one Chunk for the lifetime of the process; the owning Chunk can
// be recovered from any interior pointer by masking off the low bits of
// its address, with no side table. This is the load-bearing invariant of
// the whole search engine: it is what lets the scanner attribute a byte
// offset inside an arbitrary slice of bytes back to a Chunk in O(1).
package chunk

import (
	"errors"
	"unsafe"

	"github.com/google/uuid"
)

// Size is the fixed size, in bytes, of every chunk's backing allocation.
// It must be a power of two: Of relies on masking low-order address bits.
const Size = 1 << 20

// headerReserve bounds the size of every Chunk field other than data. It
// is generous on purpose; what matters is that sizeof(Chunk) stays well
// under Size so the whole struct fits inside one Size-aligned window.
const headerReserve = 256

// Payload is the number of bytes of line data a single chunk can hold.
const Payload = Size - headerReserve

var (
	// ErrRecordTooLarge is returned by Allocator.Alloc when a single line
	// does not fit in an empty chunk.
	ErrRecordTooLarge = errors.New("chunk: record larger than chunk payload")
)

// ID identifies a chunk for diagnostics and log correlation only. It plays
// no part in the reverse-lookup invariant, which is pure pointer masking.
type ID = uuid.UUID

// NewID returns a fresh chunk identifier.
func NewID() ID {
	return uuid.Must(uuid.NewV7())
}

// ChunkFile records one contiguous interval, within a chunk's data, of
// bytes that belong to a single source file. Appending to files follows
// the "last record" merge policy: consecutive lines from the same file
// extend the current interval; a line from a different file (or from the
// same file but landing in a different chunk) starts a new one.
type ChunkFile struct {
	// File identifies the owning source file. Concretely a
	// *searchfile.File, kept as any here so this package does not import
	// searchfile (searchfile has no need to know about chunk).
	File any
	// Left and Right are offsets into the owning chunk's data, relative
	// to the start of that chunk's own payload. Right is exclusive.
	Left, Right int
}

// Chunk is a fixed-size, Size-aligned memory arena holding deduplicated
// line data plus the file-interval table describing which source files
// each byte range belongs to.
//
// Chunk values are never constructed with &Chunk{}; they are always
// placed at a Size-aligned address inside a larger allocation by alloc,
// so that Of can recover a *Chunk from any pointer into data.
type Chunk struct {
	id    ID
	size  int
	files []ChunkFile
	data  [Payload]byte
}

// alloc allocates a fresh, zeroed Chunk at a Size-aligned address and
// returns it. It over-allocates a 2*Size backing array and places the
// Chunk at the first Size-aligned offset within it, using the pattern the
// unsafe package documents as safe: a uintptr computed from a Pointer is
// immediately converted back to Pointer within the same expression, never
// stored across a GC safepoint. The backing array is kept alive for as
// long as the returned *Chunk is reachable, because *Chunk is itself an
// interior pointer into it and Go's garbage collector keeps the whole
// backing array of a slice alive whenever any pointer refers inside it.
func alloc(id ID) *Chunk {
	backing := make([]byte, 2*Size)
	base := uintptr(unsafe.Pointer(&backing[0]))
	misalign := base & (Size - 1)
	var pad uintptr
	if misalign != 0 {
		pad = Size - misalign
	}

	c := (*Chunk)(unsafe.Pointer(uintptr(unsafe.Pointer(&backing[0])) + pad))
	*c = Chunk{id: id}
	return c
}

// Of recovers the Chunk that owns the memory addressed by b. b must be a
// non-empty slice obtained from this chunk's data (directly, or via a
// sub-slice that still aliases the same backing array) — the single
// load-bearing assumption the rest of the engine relies on.
func Of(b []byte) *Chunk {
	return (*Chunk)(unsafe.Pointer(uintptr(unsafe.Pointer(&b[0])) &^ (Size - 1)))
}

// ID returns the chunk's diagnostic identifier.
func (c *Chunk) ID() ID { return c.id }

// Len returns the number of payload bytes currently used.
func (c *Chunk) Len() int { return c.size }

// Bytes returns the chunk's used payload as a byte slice aliasing the
// chunk's own backing memory. The returned slice is valid for the
// lifetime of the chunk and must not be appended to by the caller.
func (c *Chunk) Bytes() []byte { return c.data[:c.size] }

// Files returns the chunk's file-interval table.
func (c *Chunk) Files() []ChunkFile { return c.files }

// Offset returns b's starting position within this chunk's data, relative
// to the start of the chunk's own payload. b must alias this chunk's
// backing memory (true for any slice chunk.Of would resolve back to c).
func (c *Chunk) Offset(b []byte) int {
	if len(b) == 0 {
		return c.size
	}
	return int(uintptr(unsafe.Pointer(&b[0])) - uintptr(unsafe.Pointer(&c.data[0])))
}

// Record appends (or extends) a ChunkFile entry for the line spanning
// [left, right) inside this chunk's data, owned by file. Per the "last
// record" merge policy: if the most recently opened record already belongs
// to file, its Left bound is lowered to left and its Right bound raised to
// right where they widen it; otherwise a new record [left, right) is opened.
func (c *Chunk) Record(file any, left, right int) {
	if n := len(c.files); n > 0 && c.files[n-1].File == file {
		if right > c.files[n-1].Right {
			c.files[n-1].Right = right
		}
		if left < c.files[n-1].Left {
			c.files[n-1].Left = left
		}
		return
	}
	c.files = append(c.files, ChunkFile{File: file, Left: left, Right: right})
}

// Allocator hands out byte ranges from a sequence of chunks, allocating a
// new chunk whenever the current one cannot fit the next line. Chunks are
// never reused once rotated away from; allocation is append-only within a
// chunk and chunks are visited in creation order during a scan.
type Allocator struct {
	current *Chunk
	chunks  []*Chunk
}

// NewAllocator returns an Allocator with a single empty chunk open.
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.rotate()
	return a
}

func (a *Allocator) rotate() {
	c := alloc(NewID())
	a.current = c
	a.chunks = append(a.chunks, c)
}

// Alloc reserves n bytes of storage and returns a slice of exactly that
// length inside some chunk's data, along with that chunk. It rotates to a
// new chunk first if n would not fit in the space remaining in the
// current one. Returns ErrRecordTooLarge if n exceeds Payload outright.
func (a *Allocator) Alloc(n int) (*Chunk, []byte, error) {
	if n > Payload {
		return nil, nil, ErrRecordTooLarge
	}
	if a.current.size+n > Payload {
		a.rotate()
	}
	c := a.current
	out := c.data[c.size : c.size+n : c.size+n]
	c.size += n
	return c, out, nil
}

// Chunks returns every chunk ever allocated, in creation order. The
// scanner relies on this order only for determinism of output, not
// correctness.
func (a *Allocator) Chunks() []*Chunk {
	return a.chunks
}
