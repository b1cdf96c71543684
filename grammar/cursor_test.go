package grammar

import (
	"regexp"
	"testing"
)

func TestCursorAdvanceIfChar(t *testing.T) {
	c := NewCursor("%%", 0)
	if !c.AdvanceIfChar('%') {
		t.Fatalf("AdvanceIfChar('%%') = false, want true")
	}
	if c.AdvanceIfChar('x') {
		t.Errorf("AdvanceIfChar('x') = true, want false")
	}
	if c.Pos() != 1 {
		t.Errorf("Pos = %d, want 1", c.Pos())
	}
}

func TestCursorAdvanceIfChars(t *testing.T) {
	c := NewCursor("*/ rest", 0)
	if c.AdvanceIfChars("*/ rest and more") {
		t.Errorf("AdvanceIfChars past end = true, want false")
	}
	if !c.AdvanceIfChars("*/") {
		t.Fatalf("AdvanceIfChars(*/) = false, want true")
	}
	if c.Pos() != 2 {
		t.Errorf("Pos = %d, want 2", c.Pos())
	}
}

func TestCursorAdvanceIfRegexp(t *testing.T) {
	word := regexp.MustCompile(`^[a-zA-Z_]\w*`)
	anywhere := regexp.MustCompile(`[0-9]+`)

	tests := []struct {
		name    string
		input   string
		re      *regexp.Regexp
		want    string
		wantPos int
	}{
		{"match", "expr: term", word, "expr", 4},
		{"no match", ": term", word, "", 0},
		{"match not at cursor", "abc 123", anywhere, "", 0},
		{"match at cursor", "123 abc", anywhere, "123", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input, 0)
			got := c.AdvanceIfRegexp(tt.re)
			if got != tt.want {
				t.Errorf("AdvanceIfRegexp = %q, want %q", got, tt.want)
			}
			if c.Pos() != tt.wantPos {
				t.Errorf("Pos = %d, want %d", c.Pos(), tt.wantPos)
			}
		})
	}
}

func TestCursorAdvanceUntil(t *testing.T) {
	c := NewCursor("abc\ndef", 0)
	if !c.AdvanceUntilChar('\n') {
		t.Fatalf("AdvanceUntilChar = false, want true")
	}
	if c.Pos() != 3 {
		t.Errorf("Pos = %d, want 3", c.Pos())
	}

	c = NewCursor("/* never closed", 2)
	if c.AdvanceUntilChars("*/") {
		t.Errorf("AdvanceUntilChars = true, want false")
	}
	if !c.EOS() {
		t.Errorf("cursor should be at end of input")
	}

	c = NewCursor("abc", 0)
	if c.AdvanceUntilChar('x') {
		t.Errorf("AdvanceUntilChar = true, want false")
	}
	if c.Pos() != 3 {
		t.Errorf("Pos = %d, want 3", c.Pos())
	}
}

func TestCursorSkipWhitespace(t *testing.T) {
	c := NewCursor(" \t\nx", 0)
	if !c.SkipWhitespace() || c.Pos() != 3 {
		t.Errorf("SkipWhitespace stopped at %d, want 3", c.Pos())
	}

	c = NewCursor(" \t\nx", 0)
	if !c.SkipWhitespaceKeepNewline() || c.Pos() != 2 {
		t.Errorf("SkipWhitespaceKeepNewline stopped at %d, want 2", c.Pos())
	}
	if c.SkipWhitespaceKeepNewline() {
		t.Errorf("SkipWhitespaceKeepNewline at newline = true, want false")
	}
}

func TestCursorNeverPanics(t *testing.T) {
	c := NewCursor("ab", 10)
	if !c.EOS() {
		t.Errorf("cursor created past the end should be at EOS")
	}
	if ch := c.NextChar(); ch != 0 {
		t.Errorf("NextChar at EOS = %q, want 0", ch)
	}
	if ch := c.PeekChar(-5); ch != 0 {
		t.Errorf("PeekChar(-5) = %q, want 0", ch)
	}
	c.GoBack(100)
	if c.Pos() != 0 {
		t.Errorf("Pos after GoBack(100) = %d, want 0", c.Pos())
	}
}
