package chunk

import (
	"bytes"
	"testing"
)

func TestAllocatorReverseLookup(t *testing.T) {
	a := NewAllocator()
	c, b, err := a.Alloc(5)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	copy(b, "hello")

	got := Of(b)
	if got != c {
		t.Fatalf("Of(b) = %p, want %p", got, c)
	}
	if !bytes.Equal(got.Bytes(), []byte("hello")) {
		t.Fatalf("Bytes() = %q, want %q", got.Bytes(), "hello")
	}
}

func TestAllocatorRotatesOnOverflow(t *testing.T) {
	a := NewAllocator()
	first := a.current

	_, _, err := a.Alloc(Payload - 1)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a.current != first {
		t.Fatalf("unexpected rotation before payload exhausted")
	}

	_, b, err := a.Alloc(10)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a.current == first {
		t.Fatalf("expected rotation to a new chunk")
	}
	if Of(b) != a.current {
		t.Fatalf("Of(b) did not recover the rotated-to chunk")
	}
	if len(a.Chunks()) != 2 {
		t.Fatalf("Chunks() len = %d, want 2", len(a.Chunks()))
	}
}

func TestAllocTooLarge(t *testing.T) {
	a := NewAllocator()
	if _, _, err := a.Alloc(Payload + 1); err != ErrRecordTooLarge {
		t.Fatalf("err = %v, want ErrRecordTooLarge", err)
	}
}

func TestChunkRecordMergesConsecutiveSameFile(t *testing.T) {
	a := NewAllocator()
	c, _, _ := a.Alloc(10)

	type fileStub struct{ name string }
	f1 := &fileStub{"a.go"}
	f2 := &fileStub{"b.go"}

	c.Record(f1, 0, 4)
	c.Record(f1, 4, 8)
	if len(c.Files()) != 1 {
		t.Fatalf("expected consecutive same-file records to merge, got %d records", len(c.Files()))
	}
	if c.Files()[0].Right != 8 {
		t.Fatalf("Right = %d, want 8", c.Files()[0].Right)
	}

	c.Record(f2, 8, 12)
	if len(c.Files()) != 2 {
		t.Fatalf("expected a new record for a different file, got %d records", len(c.Files()))
	}

	c.Record(f1, 12, 16)
	if len(c.Files()) != 3 {
		t.Fatalf("expected interleaving back to f1 to open a new record, got %d records", len(c.Files()))
	}
}
