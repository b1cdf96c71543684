package yacc

import (
	"strings"

	"github.com/dhamidi/yash/grammar"
)

// resolve runs the passes that need the whole file: type tag checks, symbol
// resolution and the usage warnings.
func (p *parser) resolve() {
	d := p.doc
	p.start = firstNonEmpty(p.start, p.firstRule)
	d.Start = p.start

	if def, ok := d.Defines.Get(valueTypeKey); ok && p.union.IsValid() {
		d.Problems.AddRelated(grammar.SeverityWarning, "%union is used together with %define api.value.type.", def.Range(), grammar.Related{
			Message: "%union declared here.",
			Offset:  p.union.Start,
			End:     p.union.End,
		})
	}

	p.checkTags()

	for _, occ := range d.Occurrences {
		sym, ok := d.Lookup(occ.Name)
		if !ok {
			if IsPredefined(occ.Name) {
				occ.Predefined = true
			} else {
				p.errorf(occ.Range, "Symbol was not declared.")
			}
			continue
		}
		occ.Symbol = sym
		sym.Used = true
		sym.References = append(sym.References, occ.Range)
		if sym.Alias != nil {
			sym.Alias.Used = true
		}
	}

	for _, sym := range d.Tokens.All() {
		if !sym.Used {
			p.warnf(sym.Range(), "Token declared but never used.")
		}
	}

	if !d.RulesRange.IsValid() {
		return
	}

	var stale []string
	for name, sym := range d.Symbols.All() {
		if sym.Definition.Start < d.RulesRange.Start {
			p.warnf(sym.Range(), "Non-terminal symbol type declared but never defined by a rule.")
			stale = append(stale, name)
		}
	}
	for _, name := range stale {
		d.Symbols.Delete(name)
	}

	for name, sym := range d.Symbols.All() {
		if !sym.Used && name != p.start {
			p.warnf(sym.Range(), "Non-terminal declared but never used.")
		}
	}

	p.checkSemanticValues()
}

func (p *parser) checkTags() {
	if p.valueKind == "variant" || p.valueKind == "union" {
		return
	}
	for _, tag := range p.tags {
		if tag.name == "*" || tag.merge {
			continue
		}
		if p.globalType != "" {
			if tag.name != p.globalType {
				p.errorf(tag.r, "Type does not match %%define %s {%s}.", valueTypeKey, p.globalType)
			}
			continue
		}
		sym, ok := p.doc.Types.Get(tag.name)
		if !ok {
			p.errorf(tag.r, "Type was not declared in the %%union.")
			continue
		}
		sym.Used = true
		sym.References = append(sym.References, tag.r)
	}
}

// checkSemanticValues reports rules whose actions assign $$ while the rule
// has no semantic value type. A rule is reported once, however many of its
// alternatives or repeated heads assign $$.
func (p *parser) checkSemanticValues() {
	if p.defaultType != "" || p.globalType != "" {
		return
	}
	reported := make(map[string]bool)
	for _, node := range p.doc.Nodes {
		if node.Kind != NodeRule || reported[node.Name] {
			continue
		}
		sym, ok := p.doc.Symbols.Get(node.Name)
		if !ok || sym.Type != "" {
			continue
		}
		for _, action := range node.Actions {
			if strings.Contains(action, "$$") {
				head := grammar.Range{Start: node.Offset, End: node.Offset + len(node.Name)}
				p.errorf(head, "Semantic value used inside actions but has not declared the type.")
				reported[node.Name] = true
				break
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
