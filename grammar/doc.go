// Package grammar holds the pieces shared by the Yacc and Lex front-ends:
// the character cursor the scanners are built on, source ranges, problems
// (diagnostics), insertion-ordered symbol tables, the Locations variant used
// by lookups and a line index for offset/position conversion.
//
// Offsets are byte offsets into the source text. Ranges are half-open for
// slicing (Start inclusive, End exclusive) but lookups by offset treat End as
// inclusive so that a cursor placed right after a symbol still hits it.
package grammar
