// Package cursor wraps a line source with a one-record lookahead.
//
// A Cursor holds the current record and the next one. The merge driver uses
// the lookahead to see whether the upcoming row repeats the current key before
// deciding which side to advance.
//
// States:
//
//	Empty --FirstFill--> Primed --Advance--> Advancing --Advance--> ... --> Exhausted
//
// Exhausted means the lookahead could not be refilled. The current record is
// still valid in that state; the next Advance reports false.
package cursor
