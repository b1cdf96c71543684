// Package lex parses flex/lex scanner specifications into a Document.
//
// A specification has three sections separated by %% lines: definitions,
// rules and user code. The parser records named definitions and start
// conditions, the {name} and <state> references made to them, and the
// regions of embedded C code.
//
// Rules of the form
//
//	<STRING>{
//	    \"      { BEGIN(INITIAL); }
//	    {char}+ { append(yytext); }
//	}
//
// are parsed recursively. Everything found inside such a scope is reported
// at its position in the original text.
package lex
