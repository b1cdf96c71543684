package yacc

import (
	"regexp"
	"strings"

	"github.com/dhamidi/yash/grammar"
)

var (
	wordPattern   = regexp.MustCompile(`^[a-zA-Z_][\w.\-]*`)
	typePattern   = regexp.MustCompile(`^(\*|[a-zA-Z_][\w.:\-]*)`)
	paramPattern  = regexp.MustCompile(`^\[[a-zA-Z_][\w.\-]*\]`)
	optionPattern = regexp.MustCompile(`^[\w-]+`)
	numberPattern = regexp.MustCompile(`^[0-9]+`)
)

const maxTypeNesting = 64

// Scanner tokenizes Yacc/Bison grammar files. It is pull based: every call to
// Scan returns the next token. All input bytes end up in some token, so the
// token texts concatenated give back the source.
type Scanner struct {
	cursor *grammar.Cursor
	state  State
	token  Token
}

type scanFunc func(s *Scanner, offset int) Token

var stateScanners = [...]scanFunc{
	StateWithinContent:   (*Scanner).scanContent,
	StateWithinComment:   (*Scanner).scanComment,
	StateWithinCode:      (*Scanner).scanCode,
	StateWithinAction:    (*Scanner).scanAction,
	StateWithinTypeValue: (*Scanner).scanTypeValue,
}

func NewScanner(text string, offset int, state State) *Scanner {
	return &Scanner{
		cursor: grammar.NewCursor(text, offset),
		state:  state,
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

// Token returns the token produced by the last call to Scan.
func (s *Scanner) Token() Token {
	return s.token
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
	offset := s.cursor.Pos()
	if s.cursor.EOS() {
		return s.finish(offset, TokenEOS, "")
	}
	if s.cursor.SkipWhitespace() {
		if s.cursor.EOS() {
			if msg := s.unclosed(); msg != "" {
				return s.finish(offset, TokenUnknown, msg)
			}
		}
		return s.finish(offset, TokenWhitespace, "")
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
	case StateWithinTypeValue:
		return "Invalid type tag."
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

func (s *Scanner) scanContent(offset int) Token {
	c := s.cursor
	switch c.NextChar() {
	case '/':
		if c.AdvanceIfChar('*') {
			s.state = StateWithinComment
			return s.finish(offset, TokenStartComment, "")
		}
		if c.AdvanceIfChar('/') {
			c.AdvanceUntilChar('\n')
			return s.finish(offset, TokenComment, "")
		}
		return s.finish(offset, TokenUnknown, "")
	case '|':
		return s.finish(offset, TokenBar, "")
	case ':':
		return s.finish(offset, TokenColon, "")
	case ';':
		return s.finish(offset, TokenSemiColon, "")
	case '.':
		return s.finish(offset, TokenDot, "")
	case '{':
		s.state = StateWithinAction
		return s.finish(offset, TokenStartAction, "")
	case '}':
		return s.finish(offset, TokenUnknown, "Unexpected '}'.")
	case '%':
		if c.AdvanceIfChar('%') {
			return s.finish(offset, TokenRulesTag, "")
		}
		if c.AdvanceIfChar('{') {
			s.state = StateWithinCode
			return s.finish(offset, TokenStartAction, "")
		}
		if c.AdvanceIfRegexp(optionPattern) != "" {
			if strings.ToLower(c.Source()[offset:c.Pos()]) == "%define" {
				c.AdvanceUntilChar('\n')
				return s.finish(offset, TokenDefinition, "")
			}
			return s.finish(offset, TokenOption, "")
		}
		return s.finish(offset, TokenPercent, "")
	case '<':
		s.state = StateWithinTypeValue
		return s.finish(offset, TokenStartType, "")
	case '"', '\'':
		c.GoBackTo(offset)
		if c.AdvanceIfRegexp(grammar.QuotedPattern) != "" {
			return s.finish(offset, TokenLiteral, "")
		}
		c.Advance(1)
		return s.finish(offset, TokenUnknown, "String not closed.")
	case '[':
		c.GoBackTo(offset)
		if c.AdvanceIfRegexp(paramPattern) != "" {
			return s.finish(offset, TokenParam, "")
		}
		c.Advance(1)
		return s.finish(offset, TokenUnknown, "")
	}

	c.GoBackTo(offset)
	if c.AdvanceIfRegexp(wordPattern) != "" {
		return s.finish(offset, TokenWord, "")
	}
	if c.AdvanceIfRegexp(numberPattern) != "" {
		return s.finish(offset, TokenNumber, "")
	}
	c.Advance(1)
	return s.finish(offset, TokenUnknown, "")
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

// scanCode handles the %{ ... %} prologue, which is copied verbatim and is
// not brace balanced.
func (s *Scanner) scanCode(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChars("%}") {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndAction, "")
	}
	if !c.AdvanceUntilChars("%}") {
		return s.finish(offset, TokenUnknown, "Code not closed!")
	}
	return s.finish(offset, TokenAction, "")
}

func (s *Scanner) scanAction(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChar('}') {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndAction, "")
	}
	if c.SkipBlock(false) != grammar.BlockClosed {
		return s.finish(offset, TokenUnknown, "Code not closed!")
	}
	return s.finish(offset, TokenAction, "")
}

func (s *Scanner) scanTypeValue(offset int) Token {
	c := s.cursor
	if c.AdvanceIfChar('>') {
		s.state = StateWithinContent
		return s.finish(offset, TokenEndType, "")
	}
	if s.nextType(0) {
		return s.finish(offset, TokenTypeValue, "")
	}
	c.Advance(1)
	s.state = StateWithinContent
	return s.finish(offset, TokenUnknown, "Invalid type tag.")
}

// nextType consumes a type name, allowing qualified and templated names such
// as std::map<std::string, std::vector<int>>.
func (s *Scanner) nextType(depth int) bool {
	c := s.cursor
	if c.AdvanceIfRegexp(typePattern) == "" {
		return false
	}
	if depth >= maxTypeNesting {
		return true
	}
	save := c.Pos()
	c.SkipWhitespace()
	if !c.AdvanceIfChar('<') {
		c.GoBackTo(save)
		return true
	}
	for {
		c.SkipWhitespace()
		s.nextType(depth + 1)
		c.SkipWhitespace()
		if !c.AdvanceIfChar(',') {
			break
		}
	}
	c.SkipWhitespace()
	c.AdvanceIfChar('>')
	return true
}
