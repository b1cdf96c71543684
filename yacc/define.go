package yacc

import (
	"strings"
)

const valueTypeKey = "api.value.type"

var valueTypeKinds = map[string]bool{
	"union-directive": true,
	"union":           true,
	"variant":         true,
}

// define handles a whole "%define key value" line. The line is scanned again
// on its own: first the key, then an optional value which may be a word, a
// string or a braced type.
func (p *parser) define(tok Token) {
	if p.state != stateWaitingRule {
		p.finishNode(tok.Offset)
		p.state = stateNormal
	}
	r := tokenRange(tok)
	s := NewScanner(p.text[:tok.End], tok.Offset+len("%define"), StateWithinContent)

	state := stateWaitingDefine
	var (
		key    string
		value  string
		braced bool
	)
	for t := s.Scan(); t.Kind != TokenEOS; t = s.Scan() {
		if t.Kind.isTrivia() {
			continue
		}
		switch state {
		case stateWaitingDefine:
			if t.Kind != TokenWord {
				p.errorf(r, "Invalid %%define line")
				return
			}
			key = t.Text
			state = stateWaitingDefineType
		case stateWaitingDefineType:
			switch {
			case t.Kind == TokenStartAction:
				braced = true
			case braced && t.Kind == TokenAction:
				value = strings.TrimSpace(t.Text)
			case braced && t.Kind == TokenEndAction:
				state = stateNormal
			case braced:
				p.errorf(r, "Invalid %%define line")
				return
			default:
				value = strings.TrimSpace(t.Text)
				state = stateNormal
			}
		}
	}
	if key == "" {
		p.errorf(r, "Invalid %%define line")
		return
	}

	p.doc.Nodes = append(p.doc.Nodes, &Node{
		Kind:       NodeDefine,
		Name:       key,
		Offset:     tok.Offset,
		Length:     tok.Length,
		End:        tok.End,
		TypeOffset: -1,
		TypeEnd:    -1,
	})
	sym := newSymbol(key, true, "", r)
	sym.Value = value
	if p.addSymbol(p.doc.Defines, sym) == nil || key != valueTypeKey {
		return
	}

	switch {
	case braced && value != "":
		sym.Type = value
		p.globalType = value
	case !braced && valueTypeKinds[value]:
		p.valueKind = value
	default:
		p.errorf(r, "Invalid value %q for %%define %s.", value, valueTypeKey)
	}
}
