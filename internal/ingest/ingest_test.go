package ingest

import (
	"testing"

	"codesearch/internal/searchfile"
)

func TestIngestDeduplicatesAcrossFiles(t *testing.T) {
	ig := New(nil)
	reg := searchfile.NewRegistry()

	fa := reg.Add("main", "a.go", searchfile.ContentID{1})
	fb := reg.Add("main", "b.go", searchfile.ContentID{2})

	if err := ig.Ingest(fa, []byte("package main\nfunc main() {}\n")); err != nil {
		t.Fatalf("Ingest a: %v", err)
	}
	if err := ig.Ingest(fb, []byte("package main\n")); err != nil {
		t.Fatalf("Ingest b: %v", err)
	}

	stats := ig.Stats()
	if stats.Lines != 3 {
		t.Fatalf("Lines = %d, want 3", stats.Lines)
	}
	if stats.DedupLines != 2 {
		t.Fatalf("DedupLines = %d, want 2 (package main\\n shared)", stats.DedupLines)
	}

	var totalFileRecords int
	for _, c := range ig.Allocator().Chunks() {
		totalFileRecords += len(c.Files())
	}
	if totalFileRecords != 2 {
		t.Fatalf("total ChunkFile records = %d, want 2 (1 for a.go's two consecutive lines, 1 for b.go)", totalFileRecords)
	}
}

func TestIngestDropsUnterminatedTrailingLine(t *testing.T) {
	ig := New(nil)
	reg := searchfile.NewRegistry()
	f := reg.Add("main", "a.go", searchfile.ContentID{1})

	if err := ig.Ingest(f, []byte("complete line\nno trailing newline")); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if ig.Stats().Lines != 1 {
		t.Fatalf("Lines = %d, want 1 (trailing unterminated line must be dropped)", ig.Stats().Lines)
	}
}
