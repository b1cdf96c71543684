package lex

import (
	"regexp"

	"github.com/dhamidi/yash/grammar"
)

var (
	wordPattern   = regexp.MustCompile(`^[a-zA-Z_][\w-]*`)
	optionPattern = regexp.MustCompile(`^[\w-]+`)
)

// Scanner tokenizes flex/lex specifications. Unlike Yacc, line structure
// matters in Lex: in-line blanks come out as TokenDivider and line breaks as
// TokenEOL.
type Scanner struct {
	cursor    *grammar.Cursor
	state     State
	token     Token
	multiLine bool
}

type scanFunc func(s *Scanner, offset int) Token

var stateScanners = [...]scanFunc{
	StateWithinContent:    (*Scanner).scanContent,
	StateWithinComment:    (*Scanner).scanComment,
	StateWithinCode:       (*Scanner).scanCode,
	StateWithinAction:     (*Scanner).scanAction,
	StateWithinPredefined: (*Scanner).scanPredefined,
	StateWithinStates:     (*Scanner).scanStates,
}

func NewScanner(text string, offset int, state State) *Scanner {
	return &Scanner{
		cursor:    grammar.NewCursor(text, offset),
		state:     state,
		multiLine: true,
	}
}

// ScanAll returns every token of text up to and including EOS.
func ScanAll(text string) []Token {
	s := NewScanner(text, 0, StateWithinContent)
	var tokens []Token
	for {
		tok := s.Scan()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOS {
			return tokens
		}
	}
}

func (s *Scanner) State() State {
	return s.state
}

func (s *Scanner) Token() Token {
	return s.token
}

// DisableMultiLineBrackets makes a line break end any open brace block.
// Definition lines use this so that an unbalanced brace in a pattern cannot
// swallow the rest of the file.
func (s *Scanner) DisableMultiLineBrackets() {
	s.multiLine = false
}

func (s *Scanner) EnableMultiLineBrackets() {
	s.multiLine = true
}

func (s *Scanner) Scan() Token {
	offset := s.cursor.Pos()
	before := s.state
	tok := s.scan()
	if tok.Kind != TokenEOS && s.cursor.Pos() == offset {
		logger().Debugf("scanner did not advance at offset %d, state before: %s after: %s", offset, before, s.state)
		s.cursor.Advance(1)
		tok = s.finish(offset, TokenUnknown, "")
	}
	s.token = tok
	return tok
}

func (s *Scanner) scan() Token {
	c := s.cursor
	offset := c.Pos()
	if c.EOS() {
		return s.finish(offset, TokenEOS, "")
	}
	kind := TokenWhitespace
	var skipped bool
	switch s.state {
	case StateWithinComment, StateWithinCode:
		skipped = c.SkipWhitespace()
	case StateWithinAction:
		if s.multiLine {
			skipped = c.SkipWhitespace()
		} else {
			skipped = c.SkipWhitespaceKeepNewline()
		}
	default:
		kind = TokenDivider
		skipped = c.SkipWhitespaceKeepNewline()
	}
	if skipped {
		if c.EOS() {
			if msg := s.unclosed(); msg != "" {
				return s.finish(offset, TokenUnknown, msg)
			}
		}
		return s.finish(offset, kind, "")
	}
	if int(s.state) < 0 || int(s.state) >= len(stateScanners) {
		s.state = StateWithinContent
	}
	return stateScanners[s.state](s, offset)
}

// unclosed is the error for input ending inside the current state.
func (s *Scanner) unclosed() string {
	switch s.state {
	case StateWithinComment:
		return "Comment not closed!"
	case StateWithinCode, StateWithinAction:
		return "Code not closed!"
	case StateWithinPredefined:
		return "Predefined symbol not closed."
	case StateWithinStates:
		return "Start condition list not closed."
	}
	return ""
}

func (s *Scanner) finish(offset int, kind TokenKind, errorMessage string) Token {
	end := s.cursor.Pos()
	return Token{
		Kind:   kind,
		Offset: offset,
		Length: end - offset,
		End:    end,
		Text:   s.cursor.Source()[offset:end],
		Error:  errorMessage,
	}
}

// lineEnd leaves a line oriented state at a line break. The break itself is
// still returned as TokenEOL, carrying errorMessage.
func (s *Scanner) lineEnd(offset int, errorMessage string) Token {
	s.state = StateWithinContent
	tok := s.scanContent(offset)
	tok.Error = errorMessage
	return tok
}

func isLineBreak(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

func (s *Scanner) scanContent(offset int) Token {
	c := s.cursor
	switch c.NextChar() {
	case '\n':
		return s.finish(offset, TokenEOL, "")
	case '\r':
		if c.AdvanceIfChar('\n') {
			return s.finish(offset, TokenEOL, "")
		}
		return s.finish(offset, TokenUnknown, "")
	case '/':
		if c.AdvanceIfChar('*') {
			s.state = StateWithinComment
			return s.finish(offset, TokenStartComment, "")
		}
		if c.AdvanceIfChar('/') {
			c.AdvanceWhile(func(ch byte) bool { return !isLineBreak(ch) })
			return s.finish(offset, TokenComment, "")
		}
		return s.finish(offset, TokenUnknown, "")
	case '%':
		if c.AdvanceIfChar('%') {
			return s.finish(offset, TokenRulesTag, "")
		}
		if c.AdvanceIfChar('{') {
			s.state = StateWithinCode
			return s.finish(offset, TokenStartCode, "")
		}
		if c.AdvanceIfRegexp(optionPattern) != "" {
			return s.finish(offset, TokenOption, "")
		}
		return s.finish(offset, TokenPercent, "")
	case '<':
		if c.AdvanceIfChar('<') {
			s.state = StateWithinPredefined
			return s.finish(offset, TokenStartPredefined, "")
		}
		s.state = StateWithinStates
		return s.finish(offset, TokenStartStates, "")
	case '|':
		return s.finish(offset, TokenBar, "")
	case '{':
		s.state = StateWithinAction
		return s.finish(offset, TokenStartAction, "")
	case '}':
		return s.finish(offset, TokenInvalid, "Unexpected '}'.")
	case '[':
		return s.scanCharClass(offset)
	case '\\':
		if !isLineBreak(c.PeekChar(0)) {
			c.Advance(1)
		}
		return s.finish(offset, TokenEscape, "")
	case '"', '\'':
		c.GoBackTo(offset)
		if c.AdvanceIfRegexp(grammar.QuotedPattern) != "" {
			return s.finish(offset, TokenLiteral, "")
		}
		c.Advance(1)
		return s.finish(offset, TokenUnknown, "")
	}

	c.GoBackTo(offset)
	if c.AdvanceIfRegexp(wordPattern) != "" {
		return s.finish(offset, TokenWord, "")
	}
	c.Advance(1)
	return s.finish(offset, TokenUnknown, "")
}

// scanCharClass consumes a bracket expression such as [^]a-z\]] whose
// opening bracket has been read.
func (s *Scanner) scanCharClass(offset int) Token {
	c := s.cursor
	c.AdvanceIfChar('^')
	c.AdvanceIfChar(']')
	for !c.EOS() {
		switch ch := c.PeekChar(0); {
		case ch == ']':
			c.Advance(1)
			return s.finish(offset, TokenCharClass, "")
		case ch == '\\' && !isLineBreak(c.PeekChar(1)):
			c.Advance(2)
		case ch == '[' && c.PeekChar(1) == ':':
			// [:alpha:] and friends
			c.Advance(2)
			c.AdvanceWhile(func(ch byte) bool { return ch != ':' && ch != ']' && !isLineBreak(ch) })
			c.AdvanceIfChars(":]")
		case isLineBreak(ch):
			return s.finish(offset, TokenUnknown, "Character class not closed.")
		default:
			c.Advance(1)
		}
	}
	return s.finish(offset, TokenUnknown, "Character class not closed.")
}

func (s *Scanner) scanComment(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChars("*/") {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndComment, "")
	}
	if !c.AdvanceUntilChars("*/") {
		return s.finish(offset, TokenUnknown, "Comment not closed!")
	}
	return s.finish(offset, TokenComment, "")
}

func (s *Scanner) scanCode(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChars("%}") {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndCode, "")
	}
	if !c.AdvanceUntilChars("%}") {
		return s.finish(offset, TokenUnknown, "Code not closed!")
	}
	return s.finish(offset, TokenCode, "")
}

func (s *Scanner) scanAction(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChar('}') {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndAction, "")
	}
	if isLineBreak(c.PeekChar(0)) {
		return s.lineEnd(offset, "Code not closed!")
	}
	switch c.SkipBlock(!s.multiLine) {
	case grammar.BlockClosed:
		return s.finish(offset, TokenAction, "")
	case grammar.BlockStoppedAtNewline:
		s.state = StateWithinContent
	}
	return s.finish(offset, TokenUnknown, "Code not closed!")
}

func (s *Scanner) scanPredefined(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChars(">>") {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndPredefined, "")
	}
	if isLineBreak(c.PeekChar(0)) {
		return s.lineEnd(offset, "Predefined symbol not closed.")
	}
	if c.AdvanceWhile(func(ch byte) bool { return ch != '>' && !isLineBreak(ch) }) == 0 {
		c.Advance(1)
	}
	if c.EOS() {
		return s.finish(offset, TokenPredefined, s.unclosed())
	}
	return s.finish(offset, TokenPredefined, "")
}

func (s *Scanner) scanStates(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChar('>') {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndStates, "")
	}
	if isLineBreak(c.PeekChar(0)) {
		return s.lineEnd(offset, "Start condition list not closed.")
	}
	c.AdvanceWhile(func(ch byte) bool { return ch != '>' && !isLineBreak(ch) })
	if c.EOS() {
		return s.finish(offset, TokenStates, s.unclosed())
	}
	return s.finish(offset, TokenStates, "")
}
