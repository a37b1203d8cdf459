// Package repl implements the interactive query loop: print a "regex> "
// prompt, read one line, compile it as a pattern, scan the corpus, print
// matched lines with their file attribution, and report how long the
// query took. It is a client of the scanner; it does not own ingestion.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"codesearch/internal/chunk"
	"codesearch/internal/pattern"
	"codesearch/internal/scan"
)

// REPL drives the regex> prompt loop.
type REPL struct {
	alloc   *chunk.Allocator
	maxHits int

	in  *bufio.Scanner
	out io.Writer

	now func() time.Time
}

// New returns a REPL scanning alloc's chunks, reading lines from in and
// writing all output to out.
func New(alloc *chunk.Allocator, maxHits int, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		alloc:   alloc,
		maxHits: maxHits,
		in:      bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
	}
}

// Run loops: print "regex> ", read a line, compile and scan it, print
// results, repeat. It returns nil on EOF, or the input scanner's error if
// reading a line fails; those are the loop's only exits.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, "regex> ")

		if !r.in.Scan() {
			return r.in.Err()
		}

		line := r.in.Text()
		if line == "" {
			continue
		}

		r.runQuery(line)
	}
}

func (r *REPL) runQuery(source string) {
	p, err := pattern.Compile(source)
	if err != nil {
		// An invalid or rejected pattern silently reissues the prompt,
		// matching the original engine's behavior of only proceeding
		// with re.ok() patterns.
		return
	}

	start := r.now()

	hits := scan.New(r.alloc, r.maxHits).Match(p)
	if len(hits) == 0 {
		fmt.Fprintln(r.out, "no match")
	} else {
		for _, hit := range hits {
			r.out.Write(hit.Line)
			for _, f := range hit.Files {
				fmt.Fprintf(r.out, " (%s)\n", f.String())
			}
		}
	}

	elapsed := r.now().Sub(start)
	fmt.Fprintf(r.out, "Match completed in %d.%06ds.\n",
		int64(elapsed/time.Second), int64((elapsed%time.Second)/time.Microsecond))
}
