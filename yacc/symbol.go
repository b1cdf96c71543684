package yacc

import (
	"encoding/json"

	"github.com/dhamidi/yash/grammar"
)

// predefined holds the symbols every grammar knows without declaring them.
var predefined = map[string]string{
	"error": "Predefined syntax error token.",
}

// IsPredefined reports whether name is a reserved symbol such as error.
func IsPredefined(name string) bool {
	_, ok := predefined[name]
	return ok
}

// PredefinedDescription returns the documentation of a reserved symbol.
func PredefinedDescription(name string) string {
	return predefined[name]
}

// Symbol is an entry of one of the document tables: a token, a non-terminal,
// an alias, a %union member or a %define key.
type Symbol struct {
	Name       string
	Terminal   bool
	Type       string
	Value      string
	Offset     int
	Length     int
	End        int
	Used       bool
	Definition grammar.Range
	References []grammar.Range
	Alias      *Symbol
}

func newSymbol(name string, terminal bool, typ string, r grammar.Range) *Symbol {
	return &Symbol{
		Name:       name,
		Terminal:   terminal,
		Type:       typ,
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

// MarshalJSON writes the alias by name, aliases point at each other.
func (s *Symbol) MarshalJSON() ([]byte, error) {
	type symbolJSON struct {
		Name       string          `json:"name"`
		Terminal   bool            `json:"terminal"`
		Type       string          `json:"type,omitempty"`
		Value      string          `json:"value,omitempty"`
		Offset     int             `json:"offset"`
		Length     int             `json:"length"`
		End        int             `json:"end"`
		Used       bool            `json:"used"`
		Definition grammar.Range   `json:"definition"`
		References []grammar.Range `json:"references"`
		Alias      string          `json:"alias,omitempty"`
	}
	out := symbolJSON{
		Name:       s.Name,
		Terminal:   s.Terminal,
		Type:       s.Type,
		Value:      s.Value,
		Offset:     s.Offset,
		Length:     s.Length,
		End:        s.End,
		Used:       s.Used,
		Definition: s.Definition,
		References: s.References,
	}
	if s.Alias != nil {
		out.Alias = s.Alias.Name
	}
	return json.Marshal(out)
}

// Occurrence is a use of a symbol name: a rule body item, a %prec operand or
// the %start operand.
type Occurrence struct {
	Name       string        `json:"name"`
	Range      grammar.Range `json:"range"`
	Symbol     *Symbol       `json:"-"`
	Predefined bool          `json:"predefined,omitempty"`
}

// NamedReference is a [name] written after a rule item or after a mid-rule
// action.
type NamedReference struct {
	Name    string `json:"name"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	End     int    `json:"end"`
	Symbol  string `json:"symbol,omitempty"`
	MidRule bool   `json:"midRule,omitempty"`
}
