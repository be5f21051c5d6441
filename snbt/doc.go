// Package snbt reads and writes the stringified NBT text form.
//
// # Grammar
//
//	value    = quoted | token | compound | list | array
//	quoted   = '"' chars '"' | "'" chars "'"
//	token    = [0-9A-Za-z_.+-]+
//	compound = '{' [ name ':' value { ',' name ':' value } ] '}'
//	list     = '[' [ value { ',' value } ] ']'
//	array    = '[' ('B' | 'I' | 'L') ';' [ number { ',' number } ] ']'
//
// Whitespace (space, tab, CR, LF) may appear between tokens.
//
// # Numbers
//
// An unquoted token is typed by its last character, case-insensitively:
//
//	5b     Byte       true, false  Byte 1, 0
//	5s     Short      5            Int
//	5l     Long       5.0          Double
//	5.5f   Float
//	5.5d   Double
//
// The rest of the token must parse completely as a number of that type.
//
// # Lists
//
// All elements of a list must have the same type; [1, "a"] is rejected. The
// first element fixes the type. [] is the canonical empty list.
//
// # Writing
//
// A Writer controls indentation, line feeds, spacing, escaping, numeric
// suffixes and float formatting. DefaultWriter, NoLineFeedWriter and
// CompactWriter return the stock configurations; LoadWriterConfig reads one
// from a TOML file.
package snbt
