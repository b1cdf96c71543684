// Package yacc parses Yacc/Bison grammar files into a Document.
//
// # Overview
//
// The package does not build parse tables. It reads a grammar the way an
// editor needs it: which names are declared where, where they are used,
// where embedded code lives and what is wrong with the file.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Scanner   │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │  (tables)   │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │   union     │◀────│  Resolver   │
//	                    │  (members)  │     │  (problems) │
//	                    └─────────────┘     └─────────────┘
//
// # Scanner
//
// The scanner is pull based and keeps an explicit lexical state so that it
// can be started in the middle of a construct:
//
//	s := yacc.NewScanner(text, 0, yacc.StateWithinContent)
//	for tok := s.Scan(); tok.Kind != yacc.TokenEOS; tok = s.Scan() {
//	    fmt.Println(tok.Kind, tok.Text)
//	}
//
// Every byte of the input belongs to exactly one token, whitespace included.
// Braces inside action code are counted, skipping string literals and
// comments. When no rule matches the scanner still moves one byte forward and
// returns TokenUnknown, so scanning always terminates.
//
// # Parser
//
// Parse never fails. Declarations before the first %% fill the tables:
//
//	%token <ival> NUM 258 "number"   Tokens, with value and alias
//	%type <ival> expr                Symbols (or the type of a token)
//	%left '+' PLUS                   Tokens, created when unknown
//	%union { int ival; }             Types
//	%define api.value.type variant   Defines
//
// In the rules section every name is first recorded as an occurrence. When a
// ':' follows, the last occurrence becomes the head of a new rule. After the
// scan, occurrences are resolved against non-terminals, tokens, aliases and
// the predefined error token, in that order.
//
// # Problems
//
//	Error    duplicate declarations, undeclared symbols, reserved names,
//	         unclosed code or comments, bad <tag>s, bad %define lines,
//	         $$ without a semantic value type
//	Warning  unused tokens and non-terminals, %type without a rule,
//	         %union together with %define api.value.type
//
// A duplicate declaration carries a related location pointing at the first
// one. Tables keep declaration order, so problems come out in the same order
// for the same input.
package yacc
