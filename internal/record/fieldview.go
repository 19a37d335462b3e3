package record

import (
	"fmt"
	"strings"
)

// DefaultDelimiter separates fields when no delimiter is configured.
const DefaultDelimiter = '\t'

// span is a half-open byte range [start, end) within the owning line.
type span struct {
	start int
	end   int
}

// FieldView is one line partitioned at every occurrence of a delimiter.
type FieldView struct {
	line  string
	spans []span
}

// Split partitions line on every occurrence of delim.
// An empty line yields zero fields, not one empty field.
func Split(line string, delim rune) FieldView {
	if line == "" {
		return FieldView{}
	}

	sep := string(delim)
	spans := make([]span, 0, strings.Count(line, sep)+1)
	start := 0
	for {
		i := strings.Index(line[start:], sep)
		if i < 0 {
			spans = append(spans, span{start: start, end: len(line)})
			break
		}
		spans = append(spans, span{start: start, end: start + i})
		start += i + len(sep)
	}

	return FieldView{line: line, spans: spans}
}

// Line returns the text the view was built from.
func (v FieldView) Line() string {
	return v.line
}

// Len returns the number of fields.
func (v FieldView) Len() int {
	return len(v.spans)
}

// Field returns the field at 0-based index i.
// Callers must bounds-check: i >= Len() panics.
func (v FieldView) Field(i int) string {
	if i < 0 || i >= len(v.spans) {
		panic(fmt.Sprintf("record: field index %d out of range [0,%d)", i, len(v.spans)))
	}
	s := v.spans[i]
	return v.line[s.start:s.end]
}

// Lookup is the bounds-checked form of Field.
func (v FieldView) Lookup(i int) (string, bool) {
	if i < 0 || i >= len(v.spans) {
		return "", false
	}
	return v.Field(i), true
}

// Fields returns every field in order.
func (v FieldView) Fields() []string {
	out := make([]string, len(v.spans))
	for i := range v.spans {
		out[i] = v.Field(i)
	}
	return out
}

// Keys returns the values at the given indices, in the given order, as a
// new slice. Indices past the end of the row contribute nothing, so a short
// row yields a shorter key sequence.
func (v FieldView) Keys(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if f, ok := v.Lookup(i); ok {
			out = append(out, f)
		}
	}
	return out
}

// FieldsExceptKeys returns all fields whose index is not in indices,
// in original order.
func (v FieldView) FieldsExceptKeys(indices []int) []string {
	out := make([]string, 0, len(v.spans))
	for i := range v.spans {
		if !containsIndex(indices, i) {
			out = append(out, v.Field(i))
		}
	}
	return out
}

func containsIndex(indices []int, i int) bool {
	for _, k := range indices {
		if k == i {
			return true
		}
	}
	return false
}
