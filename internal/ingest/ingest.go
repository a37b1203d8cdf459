// Package ingest implements the ingestor: it splits each blob's content
// into lines, deduplicates every line against the corpus-wide line index,
// stores genuinely new lines in the chunk allocator, and extends the
// owning chunk's file-interval table to record which source file each
// line belongs to.
package ingest

import (
	"bytes"
	"log/slog"

	"codesearch/internal/chunk"
	"codesearch/internal/lineindex"
	"codesearch/internal/logging"
	"codesearch/internal/searchfile"
)

// Stats accumulates the four counters the spec requires: total bytes and
// lines observed, and the subset of each that were genuinely new (not
// already present in the line index) and therefore actually stored.
type Stats struct {
	Bytes      uint64
	DedupBytes uint64
	Lines      uint64
	DedupLines uint64
}

// Ingestor owns the corpus-wide allocator and line index that accumulate
// across every blob ingested, from every revision walked.
type Ingestor struct {
	alloc *chunk.Allocator
	lines *lineindex.Index
	stats Stats

	logger *slog.Logger
}

// New returns an Ingestor backed by a fresh allocator and line index.
func New(logger *slog.Logger) *Ingestor {
	return &Ingestor{
		alloc:  chunk.NewAllocator(),
		lines:  lineindex.New(),
		logger: logging.Default(logger).With("component", "ingest"),
	}
}

// Allocator returns the chunk allocator lines are stored in, for the
// scanner to walk afterward.
func (ig *Ingestor) Allocator() *chunk.Allocator {
	return ig.alloc
}

// Stats returns a snapshot of the running ingestion counters.
func (ig *Ingestor) Stats() Stats {
	return ig.stats
}

// Ingest splits content on '\n' and processes each terminated line in
// turn, attributing it to file. A final, unterminated trailing line (no
// '\n' before EOF) is dropped, exactly as the rest of the line is never
// observed to end.
func (ig *Ingestor) Ingest(file *searchfile.File, content []byte) error {
	p := content
	for len(p) > 0 {
		nl := bytes.IndexByte(p, '\n')
		if nl < 0 {
			break
		}
		// Stored line includes the trailing newline, so that a scan
		// match can never straddle the boundary between two distinct
		// deduplicated lines sharing a chunk.
		line := p[:nl+1]

		if err := ig.ingestLine(file, line); err != nil {
			return err
		}

		p = p[nl+1:]
	}
	return nil
}

func (ig *Ingestor) ingestLine(file *searchfile.File, line []byte) error {
	ig.stats.Bytes += uint64(len(line))
	ig.stats.Lines++

	if stored, ok := ig.lines.Lookup(line); ok {
		c := chunk.Of(stored)
		left := c.Offset(stored)
		// right excludes the trailing newline byte itself, matching §4.5's
		// line_length (the newline-stripped span); the newline is still
		// physically present in the chunk immediately after it.
		c.Record(file, left, left+len(stored)-1)
		return nil
	}

	c, stored, err := ig.alloc.Alloc(len(line))
	if err != nil {
		return err
	}
	copy(stored, line)
	ig.lines.Insert(stored)

	ig.stats.DedupBytes += uint64(len(stored))
	ig.stats.DedupLines++

	left := c.Offset(stored)
	c.Record(file, left, left+len(stored)-1)
	return nil
}
