package workspace

import (
	"strings"
	"testing"

	"github.com/dhamidi/yash/config"
	"github.com/dhamidi/yash/grammar"
)

const lookupGrammar = "%token NUM\n%%\nexpr: NUM | expr NUM ;\n"

func mustParse(t *testing.T, path, text string) *File {
	t.Helper()
	f, err := Parse(path, []byte(text), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestDefinition(t *testing.T) {
	f := mustParse(t, "g.y", lookupGrammar)

	tests := []struct {
		name   string
		offset int
		want   grammar.Range
		found  bool
	}{
		{"token use", 32, grammar.Range{Start: 7, End: 10}, true},
		{"token declaration", 8, grammar.Range{Start: 7, End: 10}, true},
		{"recursive use", 28, grammar.Range{Start: 14, End: 18}, true},
		{"keyword", 2, grammar.NoRange, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.Definition(tt.offset).First()
			if ok != tt.found {
				t.Fatalf("Definition(%d) found = %v, want %v", tt.offset, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Definition(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestReferences(t *testing.T) {
	f := mustParse(t, "g.y", lookupGrammar)

	all := f.References(32, true)
	if all.Kind() != grammar.LocationMany || len(all.All()) != 3 {
		t.Errorf("References(includeDeclaration) = %v, want 3 locations", all.All())
	}
	uses := f.References(32, false)
	want := []grammar.Range{{Start: 20, End: 23}, {Start: 31, End: 34}}
	if len(uses.All()) != len(want) {
		t.Fatalf("References = %v, want %v", uses.All(), want)
	}
	for i, r := range uses.All() {
		if r != want[i] {
			t.Errorf("References[%d] = %v, want %v", i, r, want[i])
		}
	}
	if !f.References(2, true).IsEmpty() {
		t.Error("References at a keyword is not empty")
	}
}

func TestLexLookup(t *testing.T) {
	text := "digit [0-9]\n%s COMMENT\n%%\n<COMMENT>{digit}+ ;\n<INITIAL>x ;\n"
	f := mustParse(t, "scan.l", text)

	use := strings.Index(text, "{digit}") + 1
	if got, _ := f.Definition(use).First(); got != (grammar.Range{Start: 0, End: 5}) {
		t.Errorf("Definition(digit) = %v, want [0,5)", got)
	}

	hover, _, ok := f.Hover(use)
	if !ok || !strings.Contains(hover, "definition `digit`") {
		t.Errorf("Hover(digit) = %q", hover)
	}

	state := strings.Index(text, "<COMMENT>") + 1
	hover, _, ok = f.Hover(state)
	if !ok || !strings.Contains(hover, "inclusive start condition") {
		t.Errorf("Hover(COMMENT) = %q", hover)
	}

	initial := strings.Index(text, "INITIAL")
	hover, _, ok = f.Hover(initial)
	if !ok || !strings.Contains(hover, "`INITIAL`") {
		t.Errorf("Hover(INITIAL) = %q", hover)
	}
	if !f.Definition(initial).IsEmpty() {
		t.Error("Definition(INITIAL) is not empty")
	}
}

func TestYaccHover(t *testing.T) {
	text := "%union { int ival; }\n%token <ival> NUM 258\n%%\ne: NUM | error ;\n"
	f := mustParse(t, "g.y", text)

	tests := []struct {
		needle string
		want   string
	}{
		{"NUM |", "token `NUM` `<ival>` = 258"},
		{"error", "`error`"},
		{"ival;", "%union member `ival` of type `int`"},
	}

	for _, tt := range tests {
		t.Run(tt.needle, func(t *testing.T) {
			got, _, ok := f.Hover(strings.Index(text, tt.needle))
			if !ok || !strings.Contains(got, tt.want) {
				t.Errorf("Hover = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestOutline(t *testing.T) {
	f := mustParse(t, "g.y", lookupGrammar)
	got := f.Outline()
	if len(got) != 2 {
		t.Fatalf("Outline = %+v, want 2 entries", got)
	}
	if got[0].Name != "NUM" || got[0].Kind != "token" {
		t.Errorf("Outline[0] = %+v, want token NUM", got[0])
	}
	if got[1].Name != "expr" || got[1].Kind != "nonterminal" {
		t.Errorf("Outline[1] = %+v, want nonterminal expr", got[1])
	}

	f = mustParse(t, "s.l", "%x STR\nws [ \\t]+\n%%\n<STR>{ws} ;\n")
	got = f.Outline()
	if len(got) != 2 {
		t.Fatalf("Outline = %+v, want 2 entries", got)
	}
	if got[0].Kind != "definition" || got[0].Detail != `[ \t]+` {
		t.Errorf("Outline[0] = %+v, want definition ws", got[0])
	}
	if got[1].Kind != "state" || got[1].Detail != "exclusive" {
		t.Errorf("Outline[1] = %+v, want exclusive state STR", got[1])
	}
}
