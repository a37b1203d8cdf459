package stats

import (
	"bytes"
	"strings"
	"testing"

	"codesearch/internal/ingest"
)

func TestReportFormat(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, ingest.Stats{Bytes: 100, DedupBytes: 40, Lines: 10, DedupLines: 6})

	out := buf.String()
	if !strings.Contains(out, "Bytes: 100 (dedup: 40)") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "Lines: 10 (dedup: 6)") {
		t.Fatalf("unexpected output: %q", out)
	}
}
