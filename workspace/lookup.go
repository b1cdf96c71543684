package workspace

import (
	"fmt"
	"strings"

	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/lex"
	"github.com/dhamidi/yash/yacc"
)

// Definition returns where the symbol under offset is declared.
func (f *File) Definition(offset int) grammar.Locations {
	r, ok := f.declaration(offset)
	if !ok {
		return grammar.NoLocation()
	}
	return grammar.OneLocation(r)
}

func (f *File) declaration(offset int) (grammar.Range, bool) {
	switch {
	case f.Yacc != nil:
		if sym, ok := f.Yacc.SymbolAt(offset); ok {
			return sym.Definition, true
		}
	case f.Lex != nil:
		if sym, ok := f.Lex.SymbolAt(offset); ok {
			return sym.Definition, true
		}
	}
	return grammar.NoRange, false
}

// References returns every place the symbol under offset is named.
func (f *File) References(offset int, includeDeclaration bool) grammar.Locations {
	var (
		decl grammar.Range
		refs []grammar.Range
	)
	switch {
	case f.Yacc != nil:
		sym, ok := f.Yacc.SymbolAt(offset)
		if !ok {
			return grammar.NoLocation()
		}
		decl, refs = sym.Definition, sym.References
	case f.Lex != nil:
		sym, ok := f.Lex.SymbolAt(offset)
		if !ok {
			return grammar.NoLocation()
		}
		decl, refs = sym.Definition, sym.References
	default:
		return grammar.NoLocation()
	}
	if includeDeclaration {
		return grammar.ManyLocations(refs)
	}
	var out []grammar.Range
	for _, r := range refs {
		if r != decl {
			out = append(out, r)
		}
	}
	return grammar.ManyLocations(out)
}

// Hover describes the symbol under offset in markdown.
func (f *File) Hover(offset int) (string, grammar.Range, bool) {
	switch {
	case f.Yacc != nil:
		return yaccHover(f.Yacc, offset)
	case f.Lex != nil:
		return lexHover(f.Lex, offset)
	}
	return "", grammar.NoRange, false
}

func yaccHover(doc *yacc.Document, offset int) (string, grammar.Range, bool) {
	if occ := doc.OccurrenceAt(offset); occ != nil && occ.Predefined {
		return fmt.Sprintf("`%s`\n\n%s", occ.Name, yacc.PredefinedDescription(occ.Name)), occ.Range, true
	}
	sym, ok := doc.SymbolAt(offset)
	if !ok {
		return "", grammar.NoRange, false
	}
	var b strings.Builder
	if t, ok := doc.Types.Get(sym.Name); ok && t == sym {
		fmt.Fprintf(&b, "%%union member `%s` of type `%s`\n\n```\n%s\n```", sym.Name, sym.Type, sym.Value)
		return b.String(), sym.Range(), true
	}
	kind := "non-terminal"
	if sym.Terminal {
		kind = "token"
	}
	fmt.Fprintf(&b, "%s `%s`", kind, sym.Name)
	if sym.Type != "" {
		fmt.Fprintf(&b, " `<%s>`", sym.Type)
	}
	if sym.Value != "" {
		fmt.Fprintf(&b, " = %s", sym.Value)
	}
	if sym.Alias != nil {
		fmt.Fprintf(&b, "\n\nalias `%s`", sym.Alias.Name)
	}
	return b.String(), sym.Range(), true
}

func lexHover(doc *lex.Document, offset int) (string, grammar.Range, bool) {
	if occ := doc.OccurrenceAt(offset); occ != nil && occ.Predefined {
		return fmt.Sprintf("`%s`\n\n%s", occ.Name, lex.PredefinedDescription(occ.Name)), occ.Range, true
	}
	sym, ok := doc.SymbolAt(offset)
	if !ok {
		return "", grammar.NoRange, false
	}
	if st, ok := doc.States.Get(sym.Name); ok && st == sym {
		kind := "inclusive"
		if sym.Exclusive {
			kind = "exclusive"
		}
		return fmt.Sprintf("%s start condition `%s`", kind, sym.Name), sym.Range(), true
	}
	text := fmt.Sprintf("definition `%s`\n\n```\n%s\n```", sym.Name, sym.Value)
	if sym.Expanded != "" && sym.Expanded != sym.Value {
		text += fmt.Sprintf("\n\nexpands to\n\n```\n%s\n```", sym.Expanded)
	}
	return text, sym.Range(), true
}

// Entry is a declared name listed in an outline of the file.
type Entry struct {
	Name   string
	Kind   string
	Detail string
	Range  grammar.Range
}

// Outline lists the declarations of the file grouped by kind, each group in
// declaration order.
func (f *File) Outline() []Entry {
	var entries []Entry
	add := func(kind string, table *grammar.Table[*yacc.Symbol]) {
		for _, sym := range table.All() {
			entries = append(entries, Entry{Name: sym.Name, Kind: kind, Detail: sym.Type, Range: sym.Range()})
		}
	}
	switch {
	case f.Yacc != nil:
		add("token", f.Yacc.Tokens)
		add("nonterminal", f.Yacc.Symbols)
		add("type", f.Yacc.Types)
		for _, sym := range f.Yacc.Defines.All() {
			entries = append(entries, Entry{Name: sym.Name, Kind: "define", Detail: sym.Value, Range: sym.Range()})
		}
	case f.Lex != nil:
		for _, sym := range f.Lex.Defines.All() {
			entries = append(entries, Entry{Name: sym.Name, Kind: "definition", Detail: sym.Value, Range: sym.Range()})
		}
		for _, sym := range f.Lex.States.All() {
			detail := "inclusive"
			if sym.Exclusive {
				detail = "exclusive"
			}
			entries = append(entries, Entry{Name: sym.Name, Kind: "state", Detail: detail, Range: sym.Range()})
		}
	}
	return entries
}
