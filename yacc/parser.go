package yacc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/yacc/union"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("yash.yacc")
}

type Option func(*parser)

// WithFieldNamePosition selects where %union members carry their name.
func WithFieldNamePosition(pos union.FieldPosition) Option {
	return func(p *parser) {
		p.fieldPosition = pos
	}
}

// WithDefaultType names the semantic value type used for symbols without a
// <tag>. Setting it silences the missing type error for $$.
func WithDefaultType(typ string) Option {
	return func(p *parser) {
		p.defaultType = typ
	}
}

type parserState int

const (
	stateNormal parserState = iota
	stateWaitingToken
	stateWaitingSymbol
	stateWaitingPrecedence
	stateWaitingUnion
	stateWaitingDefine
	stateWaitingDefineType
	stateWaitingRule
)

// tagUse is a <tag> seen while scanning. Tags are checked once the whole file
// is known, %define api.value.type may come after them.
type tagUse struct {
	name  string
	r     grammar.Range
	merge bool
}

type parser struct {
	fieldPosition union.FieldPosition
	defaultType   string

	text    string
	scanner *Scanner
	doc     *Document

	state           parserState
	option          string
	last            Token
	tag             string
	node            *Node
	lastTokenSymbol *Symbol
	actionOffset    int
	rulesTags       int
	union           grammar.Range
	tags            []tagUse
	valueKind       string
	globalType      string
	firstRule       string
	start           string
}

// Parse builds the document of a Yacc/Bison grammar. It never fails:
// malformed input is reported through Document.Problems.
func Parse(text string, opts ...Option) *Document {
	p := &parser{
		text:    text,
		scanner: NewScanner(text, 0, StateWithinContent),
		doc:     newDocument(),
		state:   stateNormal,
		union:   grammar.NoRange,
		last:    Token{Kind: TokenEOS},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.run()
	p.resolve()
	sortNodes(p.doc.Nodes)
	sortNodes(p.doc.Embedded)
	return p.doc
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Offset < nodes[j].Offset
	})
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

// addSymbol registers sym in table. A name already present keeps its first
// entry and the new declaration is reported against it.
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

func (p *parser) run() {
	for {
		tok := p.scanner.Scan()
		if tok.Kind == TokenEOS {
			p.finishNode(len(p.text))
			return
		}
		if tok.Kind.isTrivia() {
			continue
		}
		if tok.Error != "" {
			p.errorf(tokenRange(tok), "%s", tok.Error)
		}
		if p.handle(tok) {
			return
		}
		p.last = tok
	}
}

// handle processes one token and reports whether parsing should stop.
func (p *parser) handle(tok Token) bool {
	switch tok.Kind {
	case TokenStartAction:
		p.actionOffset = tok.Offset
	case TokenEndAction:
		p.doc.Embedded = append(p.doc.Embedded, &Node{
			Kind:       NodeEmbedded,
			Offset:     p.actionOffset,
			Length:     tok.End - p.actionOffset,
			End:        tok.End,
			TypeOffset: -1,
			TypeEnd:    -1,
		})
		if p.state == stateWaitingUnion {
			p.state = stateNormal
		}
	case TokenAction:
		p.action(tok)
	case TokenDefinition:
		p.define(tok)
	case TokenOption:
		p.directive(tok)
	case TokenStartType:
		p.tag = ""
		if p.node != nil {
			p.node.TypeOffset = tok.Offset
		}
	case TokenEndType:
		if p.node != nil {
			p.node.TypeEnd = tok.Offset
		}
	case TokenTypeValue:
		p.tag = tok.Text
		p.tags = append(p.tags, tagUse{name: tok.Text, r: tokenRange(tok), merge: p.option == "%merge"})
	case TokenRulesTag:
		return p.rulesTag(tok)
	case TokenWord:
		p.word(tok)
	case TokenNumber:
		if p.state == stateWaitingToken && p.lastTokenSymbol != nil && p.last.Kind == TokenWord && p.lastTokenSymbol.Value == "" {
			p.lastTokenSymbol.Value = tok.Text
		}
	case TokenLiteral:
		p.literal(tok)
	case TokenColon:
		p.colon(tok)
	case TokenParam:
		p.param(tok)
	case TokenBar:
		if p.state != stateWaitingRule {
			p.errorf(tokenRange(tok), "Unexpected | symbol.")
		}
	case TokenUnknown:
		if p.state == stateWaitingRule && tok.Error == "" {
			p.errorf(tokenRange(tok), "Unknown symbol %s.", tok.Text)
		}
	}
	return false
}

func (p *parser) finishNode(end int) {
	if p.node == nil {
		return
	}
	p.node.close(end)
	p.doc.Nodes = append(p.doc.Nodes, p.node)
	p.node = nil
}

func (p *parser) directive(tok Token) {
	if p.state != stateWaitingRule {
		p.finishNode(tok.Offset)
		p.tag = ""
		p.lastTokenSymbol = nil
		p.state = stateNormal
	}
	p.option = tok.Text
	if p.state == stateWaitingRule {
		return
	}

	switch tok.Text {
	case "%union":
		p.state = stateWaitingUnion
		if !p.union.IsValid() {
			p.union = tokenRange(tok)
		}
	case "%token":
		p.node = newNode(NodeToken, tok.Offset)
		p.state = stateWaitingToken
	case "%type", "%nterm":
		p.node = newNode(NodeType, tok.Offset)
		p.state = stateWaitingSymbol
	case "%left", "%right", "%nonassoc", "%precedence":
		p.node = newNode(NodePrecedence, tok.Offset)
		p.state = stateWaitingPrecedence
	}
}

func (p *parser) action(tok Token) {
	switch p.state {
	case stateWaitingUnion:
		for _, f := range union.Parse(tok.Text, p.fieldPosition) {
			r := f.Range.Shift(tok.Offset)
			sym := newSymbol(f.Name, false, f.TypeText, r)
			sym.Value = f.Snippet
			p.addSymbol(p.doc.Types, sym)
		}
		p.state = stateNormal
	case stateWaitingRule:
		if p.node != nil && p.node.Kind == NodeRule {
			p.node.Actions = append(p.node.Actions, tok.Text)
		}
	}
}

func (p *parser) rulesTag(tok Token) bool {
	p.finishNode(tok.Offset)
	p.tag = ""
	p.option = ""
	p.rulesTags++
	if p.rulesTags == 1 {
		p.doc.RulesRange = grammar.Range{Start: tok.Offset, End: len(p.text)}
		p.state = stateWaitingRule
		return false
	}

	p.doc.RulesRange.End = tok.Offset
	if tok.End < len(p.text) {
		p.doc.Embedded = append(p.doc.Embedded, &Node{
			Kind:       NodeEmbedded,
			Offset:     tok.End,
			Length:     len(p.text) - tok.End,
			End:        len(p.text),
			TypeOffset: -1,
			TypeEnd:    -1,
		})
	}
	return true
}

func (p *parser) word(tok Token) {
	r := tokenRange(tok)
	name := tok.Text
	switch p.state {
	case stateNormal:
		if p.option == "%start" && p.start == "" {
			p.start = name
			p.doc.Occurrences = append(p.doc.Occurrences, &Occurrence{Name: name, Range: r})
		}
	case stateWaitingToken:
		p.lastTokenSymbol = nil
		if IsPredefined(name) {
			p.errorf(r, "You cannot declare the preserved keyword %q as a token!", name)
			return
		}
		p.lastTokenSymbol = p.addSymbol(p.doc.Tokens, newSymbol(name, true, p.tag, r))
	case stateWaitingSymbol:
		if IsPredefined(name) {
			p.errorf(r, "You cannot declare the preserved keyword %q as a non-terminal!", name)
			return
		}
		if sym, ok := p.doc.Tokens.Get(name); ok {
			if sym.Type == "" {
				sym.Type = p.tag
			}
			sym.References = append(sym.References, r)
			return
		}
		p.addSymbol(p.doc.Symbols, newSymbol(name, false, p.tag, r))
	case stateWaitingPrecedence:
		if IsPredefined(name) {
			return
		}
		if sym, ok := p.doc.Tokens.Get(name); ok {
			sym.References = append(sym.References, r)
			return
		}
		p.doc.Tokens.Add(name, newSymbol(name, true, p.tag, r))
	case stateWaitingRule:
		p.doc.Occurrences = append(p.doc.Occurrences, &Occurrence{Name: name, Range: r})
		p.option = ""
	}
}

func (p *parser) literal(tok Token) {
	if strings.HasPrefix(tok.Text, "'") {
		return
	}
	r := tokenRange(tok)
	switch p.state {
	case stateWaitingToken:
		owner := p.lastTokenSymbol
		if owner == nil || owner.Alias != nil || (p.last.Kind != TokenWord && p.last.Kind != TokenNumber) {
			p.errorf(r, "Alias not associated with a token.")
			return
		}
		if alias := p.addSymbol(p.doc.Aliases, newSymbol(tok.Text, true, owner.Type, r)); alias != nil {
			alias.Alias = owner
			owner.Alias = alias
		}
	case stateWaitingRule:
		p.doc.Occurrences = append(p.doc.Occurrences, &Occurrence{Name: tok.Text, Range: r})
	}
}

func (p *parser) colon(tok Token) {
	if p.state != stateWaitingRule {
		p.errorf(tokenRange(tok), "Unexpected ':' character.")
		return
	}
	if p.last.Kind != TokenWord && p.last.Kind != TokenParam {
		p.errorf(tokenRange(tok), "Unexpected ':' you can only declare a non-terminal with a word.")
		return
	}
	n := len(p.doc.Occurrences)
	if n == 0 {
		return
	}
	head := p.doc.Occurrences[n-1]
	p.doc.Occurrences = p.doc.Occurrences[:n-1]
	p.finishNode(head.Range.Start)

	p.node = newNode(NodeRule, head.Range.Start)
	p.node.Name = head.Name
	p.node.Actions = []string{}
	if p.firstRule == "" {
		p.firstRule = head.Name
	}

	if IsPredefined(head.Name) {
		p.errorf(head.Range, "You cannot declare the preserved keyword %q as a non-terminal!", head.Name)
		return
	}
	if token, ok := p.doc.Tokens.Get(head.Name); ok {
		p.doc.Problems.AddRelated(grammar.SeverityError, "Symbol was already declared as a token.", head.Range, grammar.Related{
			Message: "Was declared here.",
			Offset:  token.Offset,
			End:     token.End,
		})
		return
	}
	sym, ok := p.doc.Symbols.Get(head.Name)
	if !ok {
		p.doc.Symbols.Add(head.Name, newSymbol(head.Name, false, "", head.Range))
		return
	}
	if sym.Definition.Start >= p.doc.RulesRange.Start {
		p.doc.Problems.AddRelated(grammar.SeverityError, "Non-terminal symbol was already declared.", head.Range, grammar.Related{
			Message: "Was declared here.",
			Offset:  sym.Definition.Start,
			End:     sym.Definition.End,
		})
		return
	}
	// Declared by %type, this rule defines it.
	sym.Offset = head.Range.Start
	sym.End = head.Range.End
	sym.Length = head.Range.Len()
	sym.Definition = head.Range
	sym.References = append(sym.References, head.Range)
}

func (p *parser) param(tok Token) {
	if p.state != stateWaitingRule {
		return
	}
	ref := &NamedReference{
		Name:   strings.Trim(tok.Text, "[]"),
		Offset: tok.Offset,
		Length: tok.Length,
		End:    tok.End,
	}
	switch p.last.Kind {
	case TokenWord, TokenLiteral:
		ref.Symbol = p.last.Text
	case TokenEndAction:
		ref.MidRule = true
	default:
		p.errorf(tokenRange(tok), "Named reference must follow a symbol or a mid-rule action.")
		return
	}
	p.doc.NamedReferences = append(p.doc.NamedReferences, ref)
}
