package record

import "strings"

// Record is one parsed line together with its join key values.
type Record struct {
	View FieldView
	Keys []string
}

// New splits line and extracts the key values at keyIndices.
func New(line string, delim rune, keyIndices []int) Record {
	v := Split(line, delim)
	return Record{View: v, Keys: v.Keys(keyIndices)}
}

// Len returns the record's field count.
func (r *Record) Len() int {
	return r.View.Len()
}

// Compare orders two key sequences by ordinal byte comparison, pair by pair.
// The first unequal pair decides. When one sequence is a prefix of the other
// the shorter one sorts first, so sequences of different length never compare
// equal. Returns -1, 0 or +1.
func Compare(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// KeyEqual reports whether two records have byte-equal key sequences.
func KeyEqual(a, b *Record) bool {
	return Compare(a.Keys, b.Keys) == 0
}
