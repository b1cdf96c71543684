package lex

import (
	"sort"

	"github.com/dhamidi/yash/grammar"
)

// predefinedStates are start conditions every scanner has.
var predefinedStates = map[string]string{
	"INITIAL": "The start condition a scanner begins in.",
}

func IsPredefinedState(name string) bool {
	_, ok := predefinedStates[name]
	return ok
}

func PredefinedDescription(name string) string {
	return predefinedStates[name]
}

// Symbol is a named definition or a start condition. For definitions Value
// is the pattern as written and Expanded the pattern with all {name}
// references substituted.
type Symbol struct {
	Name       string          `json:"name"`
	Value      string          `json:"value,omitempty"`
	Expanded   string          `json:"expanded,omitempty"`
	Exclusive  bool            `json:"exclusive,omitempty"`
	Offset     int             `json:"offset"`
	Length     int             `json:"length"`
	End        int             `json:"end"`
	Used       bool            `json:"used"`
	Definition grammar.Range   `json:"definition"`
	References []grammar.Range `json:"references"`
}

func newSymbol(name string, r grammar.Range) *Symbol {
	return &Symbol{
		Name:       name,
		Offset:     r.Start,
		Length:     r.Len(),
		End:        r.End,
		Definition: r,
		References: []grammar.Range{r},
	}
}

func (s *Symbol) Range() grammar.Range {
	return grammar.Range{Start: s.Offset, End: s.End}
}

type OccurrenceKind int

const (
	// OccurrenceDefinition is a {name} substitution.
	OccurrenceDefinition OccurrenceKind = iota
	// OccurrenceState is a name inside a <state,...> prefix.
	OccurrenceState
)

func (k OccurrenceKind) String() string {
	if k == OccurrenceState {
		return "state"
	}
	return "definition"
}

func (k OccurrenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Occurrence struct {
	Name       string         `json:"name"`
	Kind       OccurrenceKind `json:"kind"`
	Range      grammar.Range  `json:"range"`
	Symbol     *Symbol        `json:"-"`
	Predefined bool           `json:"predefined,omitempty"`
}

func (o *Occurrence) shift(delta int) *Occurrence {
	o.Range = o.Range.Shift(delta)
	return o
}

// Code is a region of embedded C code: %{ %} blocks, rule actions and the
// user code section.
type Code struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	End    int `json:"end"`
}

func newCode(start, end int) Code {
	return Code{Offset: start, Length: end - start, End: end}
}

func (c Code) Range() grammar.Range {
	return grammar.Range{Start: c.Offset, End: c.End}
}

type Document struct {
	Defines     *grammar.Table[*Symbol] `json:"defines"`
	States      *grammar.Table[*Symbol] `json:"states"`
	Occurrences []*Occurrence           `json:"occurrences"`
	Embedded    []Code                  `json:"embedded"`
	RulesRange  grammar.Range           `json:"rulesRange"`
	Problems    grammar.Problems        `json:"problems"`
}

func newDocument() *Document {
	return &Document{
		Defines:    grammar.NewTable[*Symbol](),
		States:     grammar.NewTable[*Symbol](),
		RulesRange: grammar.NoRange,
	}
}

// EmbeddedAt returns the code region containing offset.
func (d *Document) EmbeddedAt(offset int) (Code, bool) {
	i := sort.Search(len(d.Embedded), func(i int) bool {
		return d.Embedded[i].End >= offset
	})
	if i < len(d.Embedded) && d.Embedded[i].Offset <= offset {
		return d.Embedded[i], true
	}
	return Code{}, false
}

func (d *Document) OccurrenceAt(offset int) *Occurrence {
	i := sort.Search(len(d.Occurrences), func(i int) bool {
		return d.Occurrences[i].Range.End >= offset
	})
	if i < len(d.Occurrences) && d.Occurrences[i].Range.Contains(offset) {
		return d.Occurrences[i]
	}
	return nil
}

// SymbolAt returns the definition or start condition named at offset, either
// where it is declared or where it is used.
func (d *Document) SymbolAt(offset int) (*Symbol, bool) {
	if occ := d.OccurrenceAt(offset); occ != nil {
		return occ.Symbol, occ.Symbol != nil
	}
	for _, table := range []*grammar.Table[*Symbol]{d.Defines, d.States} {
		for _, sym := range table.All() {
			if sym.Definition.Contains(offset) {
				return sym, true
			}
		}
	}
	return nil, false
}
