package lex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dhamidi/yash/grammar"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("yash.lex")
}

// DefaultMaxDepth bounds how deeply <state>{ ... } scopes may nest.
const DefaultMaxDepth = 32

type Option func(*parser)

func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type parserState int

const (
	stateWaitingDecl parserState = iota
	stateWaitingDef
	stateWaitingOptionParams
	stateWaitingRule
	stateWaitingAction
)

var (
	namePattern      = regexp.MustCompile(`^[a-zA-Z_][\w-]*$`)
	repeatPattern    = regexp.MustCompile(`^\s*\d+\s*(,\s*\d*\s*)?$`)
	stateNamePattern = regexp.MustCompile(`[a-zA-Z_][\w-]*`)
	referencePattern = regexp.MustCompile(`\{([a-zA-Z_][\w-]*)\}`)
)

// stateOptions maps the directives declaring start conditions to whether
// they declare exclusive ones.
var stateOptions = map[string]bool{
	"%s":         false,
	"%start":     false,
	"%state":     false,
	"%x":         true,
	"%xstate":    true,
	"%exclusive": true,
}

type parser struct {
	maxDepth int
	depth    int

	text    string
	scanner *Scanner
	doc     *Document

	state        parserState
	last         Token
	lineStart    bool
	skipLine     bool
	codeOffset   int
	actionOffset int
	accepting    bool
	exclusive    bool
	scope        bool
	braced       bool
	bare         grammar.Range
	rulesTags    int
}

func newParser(text string, state parserState, depth, maxDepth int) *parser {
	return &parser{
		maxDepth:  maxDepth,
		depth:     depth,
		text:      text,
		scanner:   NewScanner(text, 0, StateWithinContent),
		doc:       newDocument(),
		state:     state,
		last:      Token{Kind: TokenEOL},
		lineStart: true,
		bare:      grammar.NoRange,
	}
}

// Parse builds the document of a flex/lex specification. It never fails:
// malformed input is reported through Document.Problems.
func Parse(text string, opts ...Option) *Document {
	p := newParser(text, stateWaitingDecl, 0, DefaultMaxDepth)
	for _, opt := range opts {
		opt(p)
	}
	p.run()
	p.resolve()
	sort.SliceStable(p.doc.Occurrences, func(i, j int) bool {
		return p.doc.Occurrences[i].Range.Start < p.doc.Occurrences[j].Range.Start
	})
	sort.SliceStable(p.doc.Embedded, func(i, j int) bool {
		return p.doc.Embedded[i].Offset < p.doc.Embedded[j].Offset
	})
	return p.doc
}

func tokenRange(tok Token) grammar.Range {
	return grammar.Range{Start: tok.Offset, End: tok.End}
}

func (p *parser) errorf(r grammar.Range, format string, args ...any) {
	p.doc.Problems.Add(grammar.SeverityError, fmt.Sprintf(format, args...), r)
}

func (p *parser) warnf(r grammar.Range, format string, args ...any) {
	p.doc.Problems.Add(grammar.SeverityWarning, fmt.Sprintf(format, args...), r)
}

func (p *parser) addSymbol(table *grammar.Table[*Symbol], sym *Symbol) *Symbol {
	old, ok := table.Add(sym.Name, sym)
	if !ok {
		p.doc.Problems.AddRelated(grammar.SeverityError, "Symbol was already declared.", sym.Range(), grammar.Related{
			Message: "Was declared here.",
			Offset:  old.Offset,
			End:     old.End,
		})
		return nil
	}
	return sym
}

func (p *parser) occurrence(name string, kind OccurrenceKind, r grammar.Range) {
	p.doc.Occurrences = append(p.doc.Occurrences, &Occurrence{Name: name, Kind: kind, Range: r})
}

func (p *parser) run() {
	for {
		tok := p.scanner.Scan()
		if tok.Kind == TokenEOS {
			p.closeBare()
			return
		}
		if tok.Error != "" {
			p.errorf(tokenRange(tok), "%s", tok.Error)
		}
		if p.handle(tok) {
			return
		}
	}
}

// handle processes one token and reports whether parsing should stop.
func (p *parser) handle(tok Token) bool {
	switch tok.Kind {
	case TokenWhitespace, TokenStartComment, TokenEndComment, TokenComment, TokenCode:
		return false
	case TokenStartCode:
		p.codeOffset = tok.Offset
		return false
	case TokenEndCode:
		p.doc.Embedded = append(p.doc.Embedded, newCode(p.codeOffset, tok.End))
		return false
	}

	lineStart := p.lineStart
	p.lineStart = tok.Kind == TokenEOL
	defer func() { p.last = tok }()

	if p.skipLine {
		if tok.Kind == TokenEOL {
			p.skipLine = false
		}
		return false
	}

	switch p.state {
	case stateWaitingDecl:
		return p.declaration(tok, lineStart)
	case stateWaitingDef:
		switch tok.Kind {
		case TokenEOL:
			p.state = stateWaitingDecl
			p.scanner.EnableMultiLineBrackets()
		case TokenAction:
			if namePattern.MatchString(tok.Text) {
				p.occurrence(tok.Text, OccurrenceDefinition, tokenRange(tok))
			}
		}
	case stateWaitingOptionParams:
		switch tok.Kind {
		case TokenEOL:
			p.state = stateWaitingDecl
			p.accepting = false
		case TokenWord:
			if p.accepting {
				sym := newSymbol(tok.Text, tokenRange(tok))
				sym.Exclusive = p.exclusive
				p.addSymbol(p.doc.States, sym)
			}
		case TokenStartAction:
			p.actionOffset = tok.Offset
		case TokenEndAction:
			p.doc.Embedded = append(p.doc.Embedded, newCode(p.actionOffset, tok.End))
		}
	case stateWaitingRule:
		return p.rule(tok, lineStart)
	case stateWaitingAction:
		p.action(tok)
	}
	return false
}

func (p *parser) declaration(tok Token, lineStart bool) bool {
	switch tok.Kind {
	case TokenWord:
		if !lineStart {
			return false
		}
		sym := newSymbol(tok.Text, tokenRange(tok))
		sym.Value = p.restOfLine(tok.End)
		p.addSymbol(p.doc.Defines, sym)
		// a brace in a definition pattern must not run past the line
		p.scanner.DisableMultiLineBrackets()
		p.state = stateWaitingDef
	case TokenOption:
		p.exclusive, p.accepting = stateOptions[tok.Text]
		p.state = stateWaitingOptionParams
	case TokenRulesTag:
		return p.rulesTag(tok)
	case TokenDivider:
		if lineStart {
			p.skipLine = true
		}
	}
	return false
}

func (p *parser) restOfLine(from int) string {
	end := strings.IndexByte(p.text[from:], '\n')
	if end < 0 {
		return strings.TrimSpace(p.text[from:])
	}
	return strings.TrimSpace(p.text[from : from+end])
}

func (p *parser) rulesTag(tok Token) bool {
	p.rulesTags++
	if p.rulesTags == 1 {
		p.doc.RulesRange = grammar.Range{Start: tok.Offset, End: len(p.text)}
		p.state = stateWaitingRule
		return false
	}
	p.doc.RulesRange.End = tok.Offset
	if tok.End < len(p.text) {
		p.doc.Embedded = append(p.doc.Embedded, newCode(tok.End, len(p.text)))
	}
	return true
}

func (p *parser) rule(tok Token, lineStart bool) bool {
	switch tok.Kind {
	case TokenRulesTag:
		if lineStart && p.depth == 0 {
			return p.rulesTag(tok)
		}
	case TokenDivider:
		if lineStart {
			// indented lines at the top level are code, inside a scope
			// they are ordinary rules
			p.skipLine = p.depth == 0
			return false
		}
		p.state = stateWaitingAction
		p.braced = false
		p.bare = grammar.NoRange
	case TokenEOL:
		p.scope = false
	case TokenStates:
		for _, loc := range stateNamePattern.FindAllStringIndex(tok.Text, -1) {
			r := grammar.Range{Start: tok.Offset + loc[0], End: tok.Offset + loc[1]}
			p.occurrence(tok.Text[loc[0]:loc[1]], OccurrenceState, r)
		}
	case TokenStartAction:
		p.scope = p.last.Kind == TokenEndStates
		p.actionOffset = tok.Offset
	case TokenAction:
		switch {
		case namePattern.MatchString(tok.Text):
			p.occurrence(tok.Text, OccurrenceDefinition, tokenRange(tok))
		case repeatPattern.MatchString(tok.Text):
		case p.scope:
			p.parseScope(tok)
		default:
			p.errorf(tokenRange(tok), "Invalid definition pattern.")
		}
	case TokenEndAction:
		p.scope = false
	}
	return false
}

// action handles the rest of a rule line once the pattern has ended. The
// action is either a brace block, possibly spanning lines, or plain code up
// to the end of the line.
func (p *parser) action(tok Token) {
	bare := p.bare.IsValid()
	switch tok.Kind {
	case TokenEOL:
		p.closeBare()
		p.state = stateWaitingRule
		return
	case TokenDivider:
		return
	case TokenBar:
		if !bare && !p.braced {
			p.state = stateWaitingRule
			return
		}
	case TokenStartAction:
		if !bare {
			p.braced = true
			p.actionOffset = tok.Offset
			return
		}
	case TokenAction:
		if !bare && p.braced {
			return
		}
	case TokenEndAction:
		if !bare && p.braced {
			p.doc.Embedded = append(p.doc.Embedded, newCode(p.actionOffset, tok.End))
			p.braced = false
			return
		}
	}
	if !bare {
		p.bare = tokenRange(tok)
		return
	}
	p.bare.End = tok.End
}

func (p *parser) closeBare() {
	if p.bare.IsValid() {
		p.doc.Embedded = append(p.doc.Embedded, newCode(p.bare.Start, p.bare.End))
	}
	p.bare = grammar.NoRange
	p.braced = false
}

// parseScope parses the body of a <state>{ ... } scope as rules of its own
// and moves what it finds to the position of the body.
func (p *parser) parseScope(tok Token) {
	if p.depth+1 > p.maxDepth {
		p.errorf(tokenRange(tok), "Start condition scopes are nested deeper than %d levels.", p.maxDepth)
		return
	}
	logger().Debugf("parsing start condition scope at offset %d, depth %d", tok.Offset, p.depth+1)

	sub := newParser(tok.Text, stateWaitingRule, p.depth+1, p.maxDepth)
	sub.run()

	for _, occ := range sub.doc.Occurrences {
		p.doc.Occurrences = append(p.doc.Occurrences, occ.shift(tok.Offset))
	}
	for _, code := range sub.doc.Embedded {
		p.doc.Embedded = append(p.doc.Embedded, newCode(code.Offset+tok.Offset, code.End+tok.Offset))
	}
	for _, problem := range sub.doc.Problems {
		problem.Offset += tok.Offset
		problem.End += tok.Offset
		if problem.Related != nil {
			related := *problem.Related
			related.Offset += tok.Offset
			related.End += tok.Offset
			problem.Related = &related
		}
		p.doc.Problems = append(p.doc.Problems, problem)
	}
}
