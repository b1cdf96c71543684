package grammar

import "regexp"

// QuotedPattern matches a single- or double-quoted literal on one line, with
// backslash escapes.
var QuotedPattern = regexp.MustCompile(`^("(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*')`)

type BlockEnd int

const (
	BlockClosed BlockEnd = iota
	BlockStoppedAtNewline
	BlockUnclosed
)

// SkipBlock moves over the body of a brace block whose opening brace has
// already been consumed. Nested braces are counted; braces inside quoted
// literals and comments are not. On BlockClosed the cursor rests on the
// closing brace. With singleLine set, an unbalanced newline ends the scan
// and the cursor rests on it.
func (c *Cursor) SkipBlock(singleLine bool) BlockEnd {
	depth := 1
	for !c.EOS() {
		switch c.PeekChar(0) {
		case '{':
			depth++
			c.Advance(1)
		case '}':
			depth--
			if depth == 0 {
				return BlockClosed
			}
			c.Advance(1)
		case '/':
			c.Advance(1)
			if c.AdvanceIfChar('*') {
				if c.AdvanceUntilChars("*/") {
					c.Advance(2)
				}
			} else if c.AdvanceIfChar('/') {
				c.AdvanceUntilChar('\n')
			}
		case '\'', '"':
			if c.AdvanceIfRegexp(QuotedPattern) == "" {
				c.Advance(1)
			}
		case '\n':
			if singleLine {
				return BlockStoppedAtNewline
			}
			c.Advance(1)
		default:
			c.Advance(1)
		}
	}
	return BlockUnclosed
}
