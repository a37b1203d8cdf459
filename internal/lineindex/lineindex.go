// Package lineindex deduplicates line content across the entire corpus.
// It is the Go realization of the "stable byte-level hash" the ingestor
// needs: a native map, keyed by the line's bytes, whose value is the
// stored line's own byte slice (an alias into some chunk's arena memory).
// Looking a line up by its content never allocates, thanks to the
// compiler's recognized m[string(byteSlice)] idiom; only inserting a new
// line does, to obtain a key that outlives the caller's buffer.
package lineindex

// Index is a set of deduplicated lines. The stored value for a line is
// always the first copy of that line's bytes ever inserted; every later
// occurrence, anywhere in the corpus, is represented by a lookup hit
// against that same stored slice.
type Index struct {
	lines map[string][]byte
}

// New returns an empty line index.
func New() *Index {
	return &Index{lines: make(map[string][]byte)}
}

// Lookup reports whether line has already been stored, and if so returns
// the canonical stored slice for it. The []byte key conversion on the
// lookup path is compiler-elided; it does not allocate.
func (idx *Index) Lookup(line []byte) ([]byte, bool) {
	stored, ok := idx.lines[string(line)]
	return stored, ok
}

// Insert records stored as the canonical copy for its content. stored
// must already live at its final address (typically a slice freshly
// returned by chunk.Allocator.Alloc) since later lookups hand this exact
// slice back out.
func (idx *Index) Insert(stored []byte) {
	idx.lines[string(stored)] = stored
}

// Len returns the number of distinct lines recorded.
func (idx *Index) Len() int {
	return len(idx.lines)
}
