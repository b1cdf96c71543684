package grammar

import "regexp"

// Cursor is a position-tracking view over source text. None of its methods
// panic: reads past the end return 0 and "not found" is reported through
// return values.
type Cursor struct {
	source string
	pos    int
}

func NewCursor(source string, pos int) *Cursor {
	if pos < 0 {
		pos = 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	return &Cursor{source: source, pos: pos}
}

func (c *Cursor) Source() string {
	return c.source
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) EOS() bool {
	return c.pos >= len(c.source)
}

func (c *Cursor) GoBackTo(pos int) {
	c.pos = clamp(pos, len(c.source))
}

func (c *Cursor) GoBack(n int) {
	c.GoBackTo(c.pos - n)
}

func (c *Cursor) Advance(n int) {
	c.GoBackTo(c.pos + n)
}

func (c *Cursor) GoToEnd() {
	c.pos = len(c.source)
}

// NextChar returns the byte under the cursor and moves past it.
func (c *Cursor) NextChar() byte {
	if c.pos >= len(c.source) {
		return 0
	}
	ch := c.source[c.pos]
	c.pos++
	return ch
}

func (c *Cursor) PeekChar(n int) byte {
	i := c.pos + n
	if i < 0 || i >= len(c.source) {
		return 0
	}
	return c.source[i]
}

func (c *Cursor) AdvanceIfChar(ch byte) bool {
	if c.pos < len(c.source) && c.source[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *Cursor) AdvanceIfChars(seq string) bool {
	if c.pos+len(seq) > len(c.source) {
		return false
	}
	if c.source[c.pos:c.pos+len(seq)] != seq {
		return false
	}
	c.pos += len(seq)
	return true
}

// AdvanceIfRegexp consumes and returns the match of re when it starts right
// at the cursor. Otherwise it returns "" and leaves the cursor alone.
func (c *Cursor) AdvanceIfRegexp(re *regexp.Regexp) string {
	loc := re.FindStringIndex(c.source[c.pos:])
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return ""
	}
	match := c.source[c.pos : c.pos+loc[1]]
	c.pos += loc[1]
	return match
}

// AdvanceUntilChar stops in front of ch. If ch never occurs the cursor ends
// up at the end of the input and false is returned.
func (c *Cursor) AdvanceUntilChar(ch byte) bool {
	for c.pos < len(c.source) {
		if c.source[c.pos] == ch {
			return true
		}
		c.pos++
	}
	return false
}

func (c *Cursor) AdvanceUntilChars(seq string) bool {
	for c.pos+len(seq) <= len(c.source) {
		if c.source[c.pos:c.pos+len(seq)] == seq {
			return true
		}
		c.pos++
	}
	c.GoToEnd()
	return false
}

func (c *Cursor) SkipWhitespace() bool {
	return c.AdvanceWhile(isWhitespace) > 0
}

// SkipWhitespaceKeepNewline skips blanks but stops at line breaks.
func (c *Cursor) SkipWhitespaceKeepNewline() bool {
	return c.AdvanceWhile(isBlank) > 0
}

func (c *Cursor) AdvanceWhile(cond func(byte) bool) int {
	start := c.pos
	for c.pos < len(c.source) && cond(c.source[c.pos]) {
		c.pos++
	}
	return c.pos - start
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\f' || ch == '\r'
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f'
}

func clamp(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}
