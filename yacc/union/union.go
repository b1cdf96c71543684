// Package union extracts the member declarations of a %union block.
//
// The block body is free-form host language code. Only enough of it is
// understood to find where each declaration ends (a ';' outside nested
// braces, or a newline for Go style unions) and which word in it names the
// member.
package union

import (
	"strings"
	"sync"

	"github.com/dhamidi/yash/grammar"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"github.com/tliron/commonlog"
)

// FieldPosition selects which word of a declaration is the member name.
type FieldPosition int

const (
	// LastToken is the C convention: "char *name;".
	LastToken FieldPosition = iota
	// FirstToken is the Go convention: "name string".
	FirstToken
)

func (p FieldPosition) String() string {
	if p == FirstToken {
		return "first"
	}
	return "last"
}

type Field struct {
	Type     []string      `json:"type"`
	TypeText string        `json:"typeText"`
	Name     string        `json:"name"`
	Snippet  string        `json:"snippet"`
	Range    grammar.Range `json:"range"`
}

const (
	tokWord = iota
	tokStar
	tokAmp
	tokSemiColon
	tokOpen
	tokClose
	tokNewline
	tokOther
)

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	lexerErr  error
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("yash.union")
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func token(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func compiledLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), skip)
		l.Add([]byte(`//[^\n]*`), skip)
		l.Add([]byte(`( |\t|\r)+`), skip)
		l.Add([]byte(`\n`), token(tokNewline))
		l.Add([]byte(`[a-zA-Z_]([a-zA-Z0-9_]|::)*`), token(tokWord))
		l.Add([]byte(`\*`), token(tokStar))
		l.Add([]byte(`&`), token(tokAmp))
		l.Add([]byte(`;`), token(tokSemiColon))
		l.Add([]byte(`\{`), token(tokOpen))
		l.Add([]byte(`\}`), token(tokClose))
		l.Add([]byte(`[0-9]+|<|>|,|\(|\)|\[|\]|=|\.|:|/|[\+\-]`), token(tokOther))
		if err := l.Compile(); err != nil {
			lexerErr = err
			return
		}
		lexer = l
	})
	return lexer, lexerErr
}

type lexeme struct {
	kind  int
	text  string
	start int
	end   int
	depth int
}

func tokenize(text string) []lexeme {
	l, err := compiledLexer()
	if err != nil {
		logger().Errorf("compile union lexer: %s", err)
		return nil
	}
	s, err := l.Scanner([]byte(text))
	if err != nil {
		logger().Errorf("create union scanner: %s", err)
		return nil
	}

	var out []lexeme
	depth := 0
	for tok, err, eos := s.Next(); !eos; tok, err, eos = s.Next() {
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				if ui.FailTC > ui.StartTC {
					s.TC = ui.FailTC
				} else {
					s.TC = ui.StartTC + 1
				}
				continue
			}
			logger().Debugf("union scanner: %s", err)
			return out
		}
		t := tok.(*lexmachine.Token)
		lx := lexeme{kind: t.Type, text: string(t.Lexeme), start: t.TC, end: t.TC + len(t.Lexeme)}
		switch lx.kind {
		case tokOpen:
			lx.depth = depth
			depth++
		case tokClose:
			if depth > 0 {
				depth--
			}
			lx.depth = depth
		default:
			lx.depth = depth
		}
		out = append(out, lx)
	}
	return out
}

// Parse returns the members declared in text, the body of a %union block.
// Ranges are relative to text.
func Parse(text string, pos FieldPosition) []Field {
	var (
		fields []Field
		run    []lexeme
	)
	finish := func(end int) {
		if f, ok := buildField(text, run, end, pos); ok {
			fields = append(fields, f)
		}
		run = nil
	}

	for _, lx := range tokenize(text) {
		switch {
		case lx.kind == tokSemiColon && lx.depth == 0:
			if len(run) > 0 {
				finish(lx.end)
			}
		case lx.kind == tokNewline:
			if pos == FirstToken && lx.depth == 0 && len(run) >= 2 {
				finish(run[len(run)-1].end)
			}
		default:
			run = append(run, lx)
		}
	}
	if len(run) > 0 {
		finish(run[len(run)-1].end)
	}
	return fields
}

func buildField(text string, run []lexeme, end int, pos FieldPosition) (Field, bool) {
	if len(run) < 2 {
		return Field{}, false
	}
	name := -1
	for i, lx := range run {
		if lx.kind != tokWord || lx.depth != 0 {
			continue
		}
		name = i
		if pos == FirstToken {
			break
		}
	}
	if name < 0 {
		return Field{}, false
	}

	start := run[0].start
	f := Field{
		Name:    run[name].text,
		Snippet: unIndent(text[start:end]),
		Range:   grammar.Range{Start: start, End: end},
	}
	for i, lx := range run {
		if i != name {
			f.Type = append(f.Type, lx.text)
		}
	}
	if pos == FirstToken {
		f.TypeText = collapse(text[run[name].end:run[len(run)-1].end])
	} else {
		f.TypeText = collapse(text[start:run[name].start])
	}
	return f, true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// unIndent re-indents a declaration with four spaces per brace level.
func unIndent(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	indent := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "}") && indent >= 4 {
			indent -= 4
		}
		lines[i] = strings.Repeat(" ", indent) + line
		if strings.Contains(line, "{") {
			indent += 4
		}
	}
	return strings.Join(lines, "\n")
}
