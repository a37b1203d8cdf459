package pattern

import "testing"

func TestCompileRejectsNewlineCrossing(t *testing.T) {
	for _, src := range []string{`foo\nbar`, `(?s)foo.bar`} {
		if _, err := Compile(src); err != ErrCrossesNewline {
			t.Fatalf("Compile(%q) err = %v, want ErrCrossesNewline", src, err)
		}
	}
}

func TestFindFromUnanchored(t *testing.T) {
	p, err := Compile("ba+r")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	b := []byte("foo baaar baz\nbar\n")
	loc := p.FindFrom(b, 0)
	if loc == nil {
		t.Fatalf("expected a match")
	}
	if got := string(b[loc[0]:loc[1]]); got != "baaar" {
		t.Fatalf("first match = %q, want %q", got, "baaar")
	}

	loc2 := p.FindFrom(b, loc[1])
	if loc2 == nil {
		t.Fatalf("expected a second match")
	}
	if got := string(b[loc2[0]:loc2[1]]); got != "bar" {
		t.Fatalf("second match = %q, want %q", got, "bar")
	}
}

func TestMultilineAnchors(t *testing.T) {
	p, err := Compile("^bar$")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b := []byte("foo\nbar\nbaz\n")
	loc := p.FindFrom(b, 0)
	if loc == nil {
		t.Fatalf("expected ^bar$ to match the second line")
	}
	if got := string(b[loc[0]:loc[1]]); got != "bar" {
		t.Fatalf("match = %q, want %q", got, "bar")
	}
}

// TestNegatedClassesExcludeNewline covers the never_nl gap: ordinary
// code-search patterns built from negated classes, POSIX named classes,
// and Perl shorthands must never let a match span a '\n', even though
// none of them mention '\n' explicitly.
func TestNegatedClassesExcludeNewline(t *testing.T) {
	cases := []struct {
		src     string
		content string
	}{
		{`[^/]+`, "aaaa\nbbbb\n"},
		{`[^a]+`, "bbbb\ncccc\n"},
		{`\s+`, "x   \n   y\n"},
		{`[[:space:]]+`, "x   \n   y\n"},
	}
	for _, c := range cases {
		p, err := Compile(c.src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", c.src, err)
		}

		b := []byte(c.content)
		loc := p.FindFrom(b, 0)
		if loc == nil {
			t.Fatalf("Compile(%q): expected a match in %q", c.src, b)
		}
		if got := b[loc[0]:loc[1]]; bytesContainNewline(got) {
			t.Fatalf("Compile(%q): match %q crosses a newline", c.src, got)
		}
	}
}

func bytesContainNewline(b []byte) bool {
	for _, c := range b {
		if c == '\n' {
			return true
		}
	}
	return false
}
