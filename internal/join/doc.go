// Package join implements a streaming sort-merge join of two key-sorted
// delimited-text streams.
//
// Both inputs must be sorted ascending by their join key using plain byte
// order (LC_ALL=C sort). Output for unsorted input is undefined. Memory use
// is bounded by two records per side, current and lookahead.
//
// Advance policy after a match:
//
//   - if either side is exhausted, advance the other;
//   - if both lookahead keys are equal, advance both;
//   - otherwise advance the side whose lookahead key is smaller.
//
// Holding the other side in place is what pairs one row against a run of
// equal keys on the opposite side. Two runs of equal keys on both sides are
// paired in lockstep.
//
// A row is written at most once. The cursor's emitted flag is the only
// de-duplication mechanism and is checked at every emission site.
package join
