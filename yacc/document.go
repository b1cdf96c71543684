package yacc

import (
	"sort"

	"github.com/dhamidi/yash/grammar"
)

// Document is the result of parsing a grammar file. It is not modified after
// Parse returns.
type Document struct {
	Embedded        []*Node                 `json:"embedded"`
	Nodes           []*Node                 `json:"nodes"`
	Types           *grammar.Table[*Symbol] `json:"types"`
	Tokens          *grammar.Table[*Symbol] `json:"tokens"`
	Aliases         *grammar.Table[*Symbol] `json:"aliases"`
	Symbols         *grammar.Table[*Symbol] `json:"symbols"`
	Defines         *grammar.Table[*Symbol] `json:"defines"`
	Occurrences     []*Occurrence           `json:"occurrences"`
	NamedReferences []*NamedReference       `json:"namedReferences"`
	RulesRange      grammar.Range           `json:"rulesRange"`
	Start           string                  `json:"start,omitempty"`
	Problems        grammar.Problems        `json:"problems"`
}

func newDocument() *Document {
	return &Document{
		Types:      grammar.NewTable[*Symbol](),
		Tokens:     grammar.NewTable[*Symbol](),
		Aliases:    grammar.NewTable[*Symbol](),
		Symbols:    grammar.NewTable[*Symbol](),
		Defines:    grammar.NewTable[*Symbol](),
		RulesRange: grammar.NoRange,
	}
}

// NodeAt returns the declaration or rule containing offset.
func (d *Document) NodeAt(offset int) *Node {
	return nodeAt(d.Nodes, offset)
}

// EmbeddedAt returns the block of embedded code containing offset.
func (d *Document) EmbeddedAt(offset int) *Node {
	return nodeAt(d.Embedded, offset)
}

func nodeAt(nodes []*Node, offset int) *Node {
	i := sort.Search(len(nodes), func(i int) bool {
		return nodes[i].End >= offset
	})
	if i < len(nodes) && nodes[i].Offset <= offset {
		return nodes[i]
	}
	return nil
}

// OccurrenceAt returns the symbol use under offset.
func (d *Document) OccurrenceAt(offset int) *Occurrence {
	i := sort.Search(len(d.Occurrences), func(i int) bool {
		return d.Occurrences[i].Range.End >= offset
	})
	if i < len(d.Occurrences) && d.Occurrences[i].Range.Contains(offset) {
		return d.Occurrences[i]
	}
	return nil
}

// Lookup finds name in the tables a rule item resolves against, in order:
// non-terminals, tokens, aliases.
func (d *Document) Lookup(name string) (*Symbol, bool) {
	for _, table := range []*grammar.Table[*Symbol]{d.Symbols, d.Tokens, d.Aliases} {
		if sym, ok := table.Get(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// SymbolAt returns the declared symbol whose name is under offset, either at
// its declaration or at one of its uses.
func (d *Document) SymbolAt(offset int) (*Symbol, bool) {
	if occ := d.OccurrenceAt(offset); occ != nil {
		return occ.Symbol, occ.Symbol != nil
	}
	for _, table := range []*grammar.Table[*Symbol]{d.Symbols, d.Tokens, d.Aliases, d.Types} {
		for _, sym := range table.All() {
			for _, r := range sym.References {
				if r.Contains(offset) {
					return sym, true
				}
			}
		}
	}
	return nil, false
}
