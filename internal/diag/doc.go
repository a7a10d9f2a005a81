// Package diag holds the diagnostics model shared by the lexer and the parser.
//
// A Bag is the ordered error list of one parse run. Phases never return
// syntax errors as Go errors; they report them through a Reporter and keep
// going. Once the parser hands the Bag back it is frozen and further Add
// calls are ignored.
package diag
