// Package pattern is the concrete realization of the query engine's
// external "pattern" collaborator: something that can be compiled from a
// user-supplied regular expression source string and then searched,
// unanchored, over an arbitrary byte slice. It wraps the standard
// library's regexp package, since no third-party regex engine appears
// anywhere in the dependency stack this project draws from, and the core
// scan engine treats the pattern engine as swappable in the first place.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
)

// ErrCrossesNewline is returned by Compile when the supplied source could
// match text spanning a line boundary (equivalent to RE2's never_nl=false
// producing a pattern that could embed '\n' inside a match).
var ErrCrossesNewline = errors.New("pattern: source may match across a newline")

// neverNLFlags parses like Perl, except for two bits:
//   - OneLine is cleared so '^'/'$' bind to every line boundary in a chunk,
//     not only its own start and end (one_line=false).
//   - ClassNL is cleared so the parser excludes '\n' from negated bracket
//     classes such as [^/] (see MatchNL = ClassNL|DotNL in regexp/syntax,
//     the pair of "matches newline" knobs never_nl turns off). Perl
//     shorthands such as \s and POSIX named classes such as [[:space:]]
//     still contain '\n' after parsing; Compile cuts it out of them with
//     excludeNewline. DotNL is already off in the Perl preset, so a bare
//     '.' already excludes '\n'; only an explicit (?s) can turn that back on.
const neverNLFlags = syntax.Perl &^ syntax.OneLine &^ syntax.ClassNL

// Pattern is a compiled, ready-to-search regular expression.
type Pattern struct {
	re     *regexp.Regexp
	source string
}

// Compile compiles source into a Pattern whose matches can never contain a
// '\n': every character class has '\n' removed (never_nl), and '^'/'$'
// match at any line boundary within the searched slice (one_line=false,
// RE2's sense).
func Compile(source string) (*Pattern, error) {
	parsed, err := syntax.Parse(source, neverNLFlags)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", source, err)
	}

	excludeNewline(parsed)
	if admitsNewline(parsed) {
		return nil, ErrCrossesNewline
	}

	// Re-render rather than reuse parsed directly: String() spells out
	// line-anchors explicitly ("(?m:^)", "\A", ...) so the OneLine
	// distinction survives being re-parsed by the public regexp.Compile,
	// which has no parameter for custom syntax.Flags.
	re, err := regexp.Compile(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", source, err)
	}
	return &Pattern{re: re, source: source}, nil
}

// excludeNewline removes '\n' from every character class in re, in place.
func excludeNewline(re *syntax.Regexp) {
	if re.Op == syntax.OpCharClass {
		var out []rune
		for i := 0; i+1 < len(re.Rune); i += 2 {
			lo, hi := re.Rune[i], re.Rune[i+1]
			if lo < '\n' {
				out = append(out, lo, min(hi, '\n'-1))
			}
			if hi > '\n' {
				out = append(out, max(lo, '\n'+1), hi)
			}
		}
		re.Rune = out
	}
	for _, sub := range re.Sub {
		excludeNewline(sub)
	}
}

// admitsNewline reports whether re, or any of its subexpressions, could
// match a '\n' byte. With neverNLFlags this should never be true for any
// pattern parsed from ordinary source; it exists as defense in depth
// against an explicit literal '\n' or an (?s)-style any-char op.
func admitsNewline(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if r == '\n' {
				return true
			}
		}
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			if re.Rune[i] <= '\n' && '\n' <= re.Rune[i+1] {
				return true
			}
		}
	case syntax.OpAnyChar:
		return true
	}
	for _, sub := range re.Sub {
		if admitsNewline(sub) {
			return true
		}
	}
	return false
}

// String returns the pattern's original source text.
func (p *Pattern) String() string {
	return p.source
}

// FindFrom returns the [start, end) byte offsets, relative to the start
// of b, of the next unanchored match at or after pos. It returns nil if
// there is no further match.
func (p *Pattern) FindFrom(b []byte, pos int) []int {
	loc := p.re.FindIndex(b[pos:])
	if loc == nil {
		return nil
	}
	return []int{loc[0] + pos, loc[1] + pos}
}
