// Package header resolves named field selectors against header rows.
package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/mjoin/internal/record"
)

var (
	// ErrHeaderRequired is returned when a named field is used without a
	// header row to look it up in.
	ErrHeaderRequired = errors.New("field names require a header row")

	// ErrUnknownField is returned when a name is absent from the header row.
	ErrUnknownField = errors.New("unknown field name")
)

// FieldRef selects a field either by 0-based index or by header name.
// A non-empty Name takes precedence over Index.
type FieldRef struct {
	Index int
	Name  string
}

// Index returns a FieldRef selecting the 0-based field i.
func Index(i int) FieldRef {
	return FieldRef{Index: i}
}

// Named returns a FieldRef selecting the field called name.
func Named(name string) FieldRef {
	return FieldRef{Name: name}
}

// Resolved reports whether the ref is a plain index.
func (r FieldRef) Resolved() bool {
	return r.Name == ""
}

func (r FieldRef) String() string {
	if r.Name != "" {
		return strconv.Quote(r.Name)
	}
	return strconv.Itoa(r.Index)
}

// Lookup returns the index of the first header field equal to name.
func Lookup(hdr record.FieldView, name string) (int, bool) {
	for i := 0; i < hdr.Len(); i++ {
		if hdr.Field(i) == name {
			return i, true
		}
	}
	return 0, false
}

// Resolve turns ref into a 0-based index. hdr is nil when the input has no
// header row.
func Resolve(ref FieldRef, hdr *record.FieldView) (int, error) {
	if ref.Resolved() {
		if ref.Index < 0 {
			return 0, fmt.Errorf("negative field index %d", ref.Index)
		}
		return ref.Index, nil
	}
	if hdr == nil {
		return 0, fmt.Errorf("%s: %w", ref, ErrHeaderRequired)
	}
	i, ok := Lookup(*hdr, ref.Name)
	if !ok {
		return 0, fmt.Errorf("%s: %w", ref, ErrUnknownField)
	}
	return i, nil
}

// ResolveAll resolves refs in order.
func ResolveAll(refs []FieldRef, hdr *record.FieldView) ([]int, error) {
	out := make([]int, len(refs))
	for i, ref := range refs {
		idx, err := Resolve(ref, hdr)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Parse reads a field selector as written by users: a 1-based field number
// or, failing that, a header field name.
func Parse(s string) (FieldRef, error) {
	if s == "" {
		return FieldRef{}, errors.New("empty field selector")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Named(s), nil
	}
	if n < 1 {
		return FieldRef{}, fmt.Errorf("invalid field number %d: fields are numbered from 1", n)
	}
	return Index(n - 1), nil
}

// ParseList reads a comma-separated list of field selectors.
func ParseList(s string) ([]FieldRef, error) {
	var refs []FieldRef
	for _, part := range strings.Split(s, ",") {
		ref, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
