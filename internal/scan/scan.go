// Package scan implements the scanner: given a compiled pattern, it walks
// every chunk in the corpus in creation order, finds every unanchored
// match, expands each match to the line containing it, and attributes
// that line to every source file whose interval in the owning chunk's
// file table contains the match.
package scan

import (
	"bytes"

	"codesearch/internal/chunk"
	"codesearch/internal/pattern"
	"codesearch/internal/searchfile"
)

// MaxHits is the default cap on the number of distinct lines a single
// query reports before search stops.
const MaxHits = 10

// Hit is one matched line together with the files it was attributed to.
type Hit struct {
	Line  []byte
	Files []*searchfile.File
}

// Scanner walks a chunk allocator looking for pattern matches.
type Scanner struct {
	alloc   *chunk.Allocator
	maxHits int
}

// New returns a Scanner over alloc's chunks, capping results at maxHits
// distinct lines. A maxHits of 0 or less uses MaxHits.
func New(alloc *chunk.Allocator, maxHits int) *Scanner {
	if maxHits <= 0 {
		maxHits = MaxHits
	}
	return &Scanner{alloc: alloc, maxHits: maxHits}
}

// Match runs p unanchored over every chunk's data, in chunk creation
// order, returning up to s.maxHits distinct matched lines with their file
// attributions. It never returns more than one Hit per distinct matched
// line within a single chunk scan pass, even if the pattern matches that
// line more than once, since the scan position is advanced past the
// whole line on every match, matching the original engine's behavior.
func (s *Scanner) Match(p *pattern.Pattern) []Hit {
	var hits []Hit

	for _, c := range s.alloc.Chunks() {
		data := c.Bytes()
		pos := 0
		for pos < len(data) {
			loc := p.FindFrom(data, pos)
			if loc == nil {
				break
			}

			line := findLine(data, loc[0], loc[1])
			// internal/pattern.Compile enforces never_nl by construction
			// (every character class it builds already excludes '\n'), so
			// this is unreachable for any pattern that compiled; it stays
			// as the last line of defense per §4.6/§7's "assert and abort".
			if bytes.IndexByte(data[loc[0]:loc[1]], '\n') >= 0 {
				panic("scan: match crosses a newline boundary")
			}

			hits = append(hits, Hit{
				Line:  line.bytes,
				Files: filesFor(c, line.start, line.end),
			})

			pos = line.end
			if len(hits) >= s.maxHits {
				return hits
			}
		}
	}

	return hits
}

type lineSpan struct {
	bytes      []byte
	start, end int
}

// findLine expands the match at [matchStart, matchEnd) within data to the
// full line containing it: back to the byte after the nearest preceding
// '\n' (or the start of data), forward to and including the nearest
// following '\n' (or the end of data).
func findLine(data []byte, matchStart, matchEnd int) lineSpan {
	start := 0
	if i := bytes.LastIndexByte(data[:matchStart], '\n'); i >= 0 {
		start = i + 1
	}

	end := len(data)
	if i := bytes.IndexByte(data[matchEnd:], '\n'); i >= 0 {
		end = matchEnd + i + 1
	}

	return lineSpan{bytes: data[start:end], start: start, end: end}
}

// filesFor returns every file whose chunk-relative interval [Left, Right)
// contains start, the first byte of the matched line; end is not
// consulted. A line stored once can lie in many files' intervals, and
// each of those files is returned.
func filesFor(c *chunk.Chunk, start, end int) []*searchfile.File {
	var out []*searchfile.File
	for _, cf := range c.Files() {
		if start >= cf.Left && start < cf.Right {
			if f, ok := cf.File.(*searchfile.File); ok {
				out = append(out, f)
			}
		}
	}
	return out
}
