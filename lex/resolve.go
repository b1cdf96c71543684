package lex

// resolve binds occurrences to their declarations, expands definitions and
// reports what was never used.
func (p *parser) resolve() {
	d := p.doc
	for _, occ := range d.Occurrences {
		var (
			sym *Symbol
			ok  bool
		)
		switch occ.Kind {
		case OccurrenceDefinition:
			sym, ok = d.Defines.Get(occ.Name)
		case OccurrenceState:
			sym, ok = d.States.Get(occ.Name)
			if !ok && IsPredefinedState(occ.Name) {
				occ.Predefined = true
				continue
			}
		}
		if !ok {
			p.errorf(occ.Range, "Symbol not declared.")
			continue
		}
		occ.Symbol = sym
		sym.Used = true
		sym.References = append(sym.References, occ.Range)
	}

	p.expandDefinitions()

	for _, sym := range d.Defines.All() {
		if !sym.Used {
			p.warnf(sym.Range(), "Definition declared but never used.")
		}
	}
	for _, sym := range d.States.All() {
		if !sym.Used {
			p.warnf(sym.Range(), "Start condition declared but never used.")
		}
	}
}

const (
	expandPending = iota
	expandRunning
	expandDone
)

// expandDefinitions substitutes {name} references in definition values, the
// way flex does, wrapping each substitution in parentheses.
func (p *parser) expandDefinitions() {
	progress := make(map[string]int)
	var expand func(sym *Symbol) bool
	expand = func(sym *Symbol) bool {
		switch progress[sym.Name] {
		case expandDone:
			return true
		case expandRunning:
			return false
		}
		progress[sym.Name] = expandRunning
		ok := true
		expanded := referencePattern.ReplaceAllStringFunc(sym.Value, func(ref string) string {
			target, found := p.doc.Defines.Get(ref[1 : len(ref)-1])
			if !found {
				return ref
			}
			if !expand(target) {
				ok = false
				return ref
			}
			return "(" + target.Expanded + ")"
		})
		progress[sym.Name] = expandDone
		if !ok {
			p.errorf(sym.Range(), "Definition refers to itself.")
			sym.Expanded = sym.Value
			return true
		}
		sym.Expanded = expanded
		return true
	}
	for _, sym := range p.doc.Defines.All() {
		expand(sym)
	}
}
