// Package projection renders output rows from a list of column descriptors.
//
// Every output layout, whether given explicitly or chosen by policy, is
// expanded into the same []Descriptor before the first row is rendered.
// Policies are expanded once, from the field counts of the first record on
// each side.
package projection
