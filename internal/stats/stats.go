// Package stats reports the ingestion counters the engine accumulates:
// total and deduplicated bytes and lines observed across every revision
// walked.
package stats

import (
	"fmt"
	"io"

	"codesearch/internal/ingest"
)

// Report writes the two-line summary the interactive session prints once
// before entering the query loop.
func Report(w io.Writer, s ingest.Stats) {
	fmt.Fprintf(w, "Bytes: %d (dedup: %d)\n", s.Bytes, s.DedupBytes)
	fmt.Fprintf(w, "Lines: %d (dedup: %d)\n", s.Lines, s.DedupLines)
}
