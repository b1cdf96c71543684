package yacc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/yash/grammar"
)

const calcGrammar = `%{
#include <stdio.h>
%}
%union { int ival; }
%token <ival> NUM 258 "number"
%token PLUS "+"
%type <ival> expr
%left PLUS
%start input
%%
input: expr { printf("%d\n", $1); } ;
expr: expr "+" expr { $$ = $1 + $3; }
    | NUM[n] { $$ = $n; }
    ;
%%
int main(void) { return 0; }
`

func problemMessages(ps grammar.Problems) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Severity.String()+": "+p.Message)
	}
	return out
}

func TestParseCalculator(t *testing.T) {
	doc := Parse(calcGrammar)

	if len(doc.Problems) != 0 {
		t.Fatalf("Problems = %v, want none", problemMessages(doc.Problems))
	}
	if doc.Start != "input" {
		t.Errorf("Start = %q, want %q", doc.Start, "input")
	}

	num, ok := doc.Tokens.Get("NUM")
	if !ok {
		t.Fatal("token NUM not found")
	}
	if num.Type != "ival" {
		t.Errorf("NUM.Type = %q, want %q", num.Type, "ival")
	}
	if num.Value != "258" {
		t.Errorf("NUM.Value = %q, want %q", num.Value, "258")
	}
	if num.Alias == nil || num.Alias.Name != `"number"` || num.Alias.Alias != num {
		t.Errorf("NUM.Alias = %+v, want bidirectional alias \"number\"", num.Alias)
	}

	plus, _ := doc.Tokens.Get("PLUS")
	if plus == nil || !plus.Used {
		t.Errorf("PLUS should be used through its alias")
	}

	expr, ok := doc.Symbols.Get("expr")
	if !ok {
		t.Fatal("non-terminal expr not found")
	}
	if expr.Type != "ival" {
		t.Errorf("expr.Type = %q, want %q", expr.Type, "ival")
	}
	head := strings.Index(calcGrammar, "expr: expr")
	if expr.Definition.Start != head {
		t.Errorf("expr.Definition.Start = %d, want %d", expr.Definition.Start, head)
	}

	if got := doc.Symbols.Names(); len(got) != 2 || got[0] != "expr" || got[1] != "input" {
		t.Errorf("Symbols = %v, want [expr input]", got)
	}
	if len(doc.Embedded) != 6 {
		t.Errorf("len(Embedded) = %d, want 6", len(doc.Embedded))
	}

	if len(doc.NamedReferences) != 1 || doc.NamedReferences[0].Name != "n" || doc.NamedReferences[0].Symbol != "NUM" {
		t.Errorf("NamedReferences = %+v, want [n -> NUM]", doc.NamedReferences)
	}

	first := strings.Index(calcGrammar, "%%")
	second := strings.LastIndex(calcGrammar, "%%")
	if doc.RulesRange != (grammar.Range{Start: first, End: second}) {
		t.Errorf("RulesRange = %v, want [%d,%d)", doc.RulesRange, first, second)
	}

	node := doc.NodeAt(head + 2)
	if node == nil || node.Kind != NodeRule || node.Name != "expr" {
		t.Fatalf("NodeAt(%d) = %+v, want rule expr", head+2, node)
	}
	if len(node.Actions) != 2 {
		t.Errorf("len(expr.Actions) = %d, want 2", len(node.Actions))
	}

	alias := strings.Index(calcGrammar, `expr "+"`) + len("expr ")
	occ := doc.OccurrenceAt(alias + 1)
	if occ == nil || occ.Symbol == nil || occ.Symbol.Name != `"+"` {
		t.Errorf("OccurrenceAt(%d) = %+v, want alias \"+\"", alias+1, occ)
	}

	epilogue := doc.EmbeddedAt(strings.Index(calcGrammar, "int main"))
	if epilogue == nil || epilogue.End != len(calcGrammar) {
		t.Errorf("EmbeddedAt(epilogue) = %+v", epilogue)
	}
}

func TestParseRulesRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  grammar.Range
	}{
		{"no rules", "%token A\n", grammar.NoRange},
		{"one separator", "%token A\n%%\ns: A;\n", grammar.Range{Start: 9, End: 18}},
		{"two separators", "%%\ns: ;\n%%\ncode", grammar.Range{Start: 0, End: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)
			if doc.RulesRange != tt.want {
				t.Errorf("RulesRange = %v, want %v", doc.RulesRange, tt.want)
			}
		})
	}
}

func TestParseNoRulesCollectsNoOccurrences(t *testing.T) {
	doc := Parse("%token A B\n%type <x> c\n")
	if len(doc.Occurrences) != 0 {
		t.Errorf("Occurrences = %+v, want none", doc.Occurrences)
	}
	if doc.RulesRange.IsValid() {
		t.Errorf("RulesRange = %v, want invalid", doc.RulesRange)
	}
}

func TestParseDuplicateDeclaration(t *testing.T) {
	doc := Parse("%token A\n%token A\n%%\ns: A;\n")

	if len(doc.Problems) != 1 {
		t.Fatalf("Problems = %v, want exactly one", problemMessages(doc.Problems))
	}
	p := doc.Problems[0]
	if p.Severity != grammar.SeverityError {
		t.Errorf("Severity = %v, want error", p.Severity)
	}
	if p.Offset != 16 || p.End != 17 {
		t.Errorf("problem range = %d-%d, want 16-17", p.Offset, p.End)
	}
	if p.Related == nil || p.Related.Offset != 7 || p.Related.End != 8 {
		t.Errorf("Related = %+v, want 7-8", p.Related)
	}
	if doc.Tokens.Len() != 1 {
		t.Errorf("Tokens.Len() = %d, want 1", doc.Tokens.Len())
	}
	if a, _ := doc.Tokens.Get("A"); a.Offset != 7 {
		t.Errorf("A.Offset = %d, want 7", a.Offset)
	}
}

func TestParseProblems(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  []string
	}{
		{
			"undeclared symbol",
			"%%\nstart: foo ;\n",
			nil,
			[]string{"error: Symbol was not declared."},
		},
		{
			"unused token",
			"%token UNUSED\n%%\nstart: ;\n",
			nil,
			[]string{"warning: Token declared but never used."},
		},
		{
			"predefined error token",
			"%%\nstart: error ;\n",
			nil,
			nil,
		},
		{
			"reserved token",
			"%token error\n",
			nil,
			[]string{`error: You cannot declare the preserved keyword "error" as a token!`},
		},
		{
			"reserved rule head",
			"%%\nerror: ;\n",
			nil,
			[]string{`error: You cannot declare the preserved keyword "error" as a non-terminal!`},
		},
		{
			"duplicate rule head",
			"%%\ns: ;\ns: ;\n",
			nil,
			[]string{"error: Non-terminal symbol was already declared."},
		},
		{
			"rule head is a token",
			"%token s\n%%\ns: s ;\n",
			nil,
			[]string{"error: Symbol was already declared as a token."},
		},
		{
			"unused non-terminal",
			"%%\ns: a ;\na: ;\nb: ;\n",
			nil,
			[]string{"warning: Non-terminal declared but never used."},
		},
		{
			"stale type",
			"%type <i> unused\n%union { int i; }\n%%\ns: ;\n",
			nil,
			[]string{"warning: Non-terminal symbol type declared but never defined by a rule."},
		},
		{
			"undeclared tag",
			"%token <foo> A\n%%\ns: A ;\n",
			nil,
			[]string{"error: Type was not declared in the %union."},
		},
		{
			"variant skips tag checks",
			"%define api.value.type variant\n%token <int> A\n%%\ns: A ;\n",
			nil,
			nil,
		},
		{
			"invalid value type",
			"%define api.value.type foo\n",
			nil,
			[]string{`error: Invalid value "foo" for %define api.value.type.`},
		},
		{
			"union with define",
			"%union { int i; }\n%define api.value.type union-directive\n",
			nil,
			[]string{"warning: %union is used together with %define api.value.type."},
		},
		{
			"unknown define key",
			"%define parse.error verbose\n",
			nil,
			nil,
		},
		{
			"duplicate define",
			"%define parse.error verbose\n%define parse.error simple\n",
			nil,
			[]string{"error: Symbol was already declared."},
		},
		{
			"empty define",
			"%define\n",
			nil,
			[]string{"error: Invalid %define line"},
		},
		{
			"global type",
			"%define api.value.type {double}\n%%\ns: { $$ = 1; } ;\n",
			nil,
			nil,
		},
		{
			"global type mismatch",
			"%define api.value.type {double}\n%token <int> A\n%%\ns: A ;\n",
			nil,
			[]string{"error: Type does not match %define api.value.type {double}."},
		},
		{
			"missing semantic type",
			"%%\ns: { $$ = 1; } { $$ = 2; } ;\n",
			nil,
			[]string{"error: Semantic value used inside actions but has not declared the type."},
		},
		{
			"default type",
			"%%\ns: { $$ = 1; } ;\n",
			[]Option{WithDefaultType("int")},
			nil,
		},
		{
			"misplaced named reference",
			"%%\ns: | [x] ;\n",
			nil,
			[]string{"error: Named reference must follow a symbol or a mid-rule action."},
		},
		{
			"orphan alias",
			"%token \"plus\"\n",
			nil,
			[]string{"error: Alias not associated with a token."},
		},
		{
			"unclosed action",
			"%%\ns: { x = 1; ;\n",
			nil,
			[]string{"error: Code not closed!"},
		},
		{
			"action open at end of input",
			"%%\na: b {   ",
			nil,
			[]string{"error: Code not closed!", "error: Symbol was not declared."},
		},
		{
			"prologue open at end of input",
			"%{  \n",
			nil,
			[]string{"error: Code not closed!"},
		},
		{
			"union open at end of input",
			"%union {   ",
			nil,
			[]string{"error: Code not closed!"},
		},
		{
			"literal rule head",
			"%%\n\"foo\": x ;\n",
			nil,
			[]string{
				"error: Unexpected ':' you can only declare a non-terminal with a word.",
				"error: Symbol was not declared.",
				"error: Symbol was not declared.",
			},
		},
		{
			"semantic type reported once per rule",
			"%%\na: { $$ = 1; } ;\na: { $$ = 2; } ;\n",
			nil,
			[]string{
				"error: Non-terminal symbol was already declared.",
				"error: Semantic value used inside actions but has not declared the type.",
			},
		},
		{
			"unexpected bar",
			"%token A |\n",
			nil,
			[]string{"error: Unexpected | symbol.", "warning: Token declared but never used."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input, tt.opts...)
			got := problemMessages(doc.Problems)
			if len(got) != len(tt.want) {
				t.Fatalf("Problems = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Problems[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseUnion(t *testing.T) {
	input := "%union { int ival; char *sval; }\n%%\n"
	doc := Parse(input)

	tests := []struct {
		name string
		typ  string
		text string
	}{
		{"ival", "int", "int ival;"},
		{"sval", "char *", "char *sval;"},
	}
	if doc.Types.Len() != len(tests) {
		t.Fatalf("Types = %v, want %d entries", doc.Types.Names(), len(tests))
	}
	for _, tt := range tests {
		sym, ok := doc.Types.Get(tt.name)
		if !ok {
			t.Errorf("type %s not found", tt.name)
			continue
		}
		if sym.Type != tt.typ {
			t.Errorf("%s.Type = %q, want %q", tt.name, sym.Type, tt.typ)
		}
		if got := input[sym.Definition.Start:sym.Definition.End]; got != tt.text {
			t.Errorf("%s definition covers %q, want %q", tt.name, got, tt.text)
		}
	}
}

func TestParseMidRuleReference(t *testing.T) {
	doc := Parse("%token A B\n%%\ns: A { } [mid] B ;\n")
	if len(doc.Problems) != 0 {
		t.Fatalf("Problems = %v", problemMessages(doc.Problems))
	}
	if len(doc.NamedReferences) != 1 || !doc.NamedReferences[0].MidRule {
		t.Errorf("NamedReferences = %+v, want one mid-rule reference", doc.NamedReferences)
	}
}

func TestParseTypeOnToken(t *testing.T) {
	doc := Parse("%token A\n%type <v> A\n%union { int v; }\n%%\ns: A ;\n")
	if len(doc.Problems) != 0 {
		t.Fatalf("Problems = %v", problemMessages(doc.Problems))
	}
	a, _ := doc.Tokens.Get("A")
	if a.Type != "v" {
		t.Errorf("A.Type = %q, want %q", a.Type, "v")
	}
	if doc.Symbols.Has("A") {
		t.Errorf("A should stay a token")
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		calcGrammar,
		"%token A\n%token A\n%%\ns: foo | A ;\nt: ;\n",
		"%union { int i; }\n%define api.value.type variant\n%%\n",
	}
	for _, input := range inputs {
		first, err := json.Marshal(Parse(input))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		second, err := json.Marshal(Parse(input))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("parsing %q twice gave different documents", input)
		}
	}
}

func TestParseMalformedInputTerminates(t *testing.T) {
	inputs := []string{
		"%union {",
		"%union",
		"%%\n: : : ;",
		"%%\n{{{{",
		"<<<<>>>>",
		"%define",
		"%token <",
		"%%\ns: 'a' : ;",
		"%%\n%%\n%%\n",
		"}}}}",
	}
	for _, input := range inputs {
		doc := Parse(input)
		if doc == nil {
			t.Errorf("Parse(%q) = nil", input)
		}
	}
}
