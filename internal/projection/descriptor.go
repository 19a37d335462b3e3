package projection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/record"
)

// ErrBadFormat is returned by Parse for malformed output formats.
var ErrBadFormat = errors.New("invalid output format")

// Kind distinguishes the join key column(s) from a single file field.
type Kind int

const (
	KindKey Kind = iota
	KindField
)

// Descriptor is one output column: the join key, or field Field of file
// File (1 = left, 2 = right).
type Descriptor struct {
	Kind  Kind
	File  int
	Field header.FieldRef
}

// Key returns the join key descriptor.
func Key() Descriptor {
	return Descriptor{Kind: KindKey}
}

// Field returns a descriptor for 0-based field index of file (1 or 2).
func Field(file, index int) Descriptor {
	return Descriptor{Kind: KindField, File: file, Field: header.Index(index)}
}

// NamedField returns a descriptor for the header-named field of file.
func NamedField(file int, name string) Descriptor {
	return Descriptor{Kind: KindField, File: file, Field: header.Named(name)}
}

// String renders d in GNU join -o notation with 1-based field numbers.
func (d Descriptor) String() string {
	if d.Kind == KindKey {
		return "0"
	}
	if !d.Field.Resolved() {
		return fmt.Sprintf("%d.%s", d.File, d.Field.Name)
	}
	return fmt.Sprintf("%d.%d", d.File, d.Field.Index+1)
}

// Policy selects how the descriptor list is built.
type Policy int

const (
	// PolicyDefault: key, then the non-key fields of file 1, then of file 2.
	PolicyDefault Policy = iota
	// PolicyAuto: same columns as PolicyDefault; selected with "-o auto".
	PolicyAuto
	// PolicyAll: key, then every field of file 1, then every field of file 2.
	PolicyAll
	// PolicyExplicit: the caller's descriptor list.
	PolicyExplicit
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "gnu-default"
	case PolicyAuto:
		return "auto"
	case PolicyAll:
		return "all"
	case PolicyExplicit:
		return "explicit"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Spec is an output layout before expansion.
type Spec struct {
	Policy Policy
	Fields []Descriptor
}

// Explicit returns a Spec with the given descriptors.
func Explicit(fields ...Descriptor) Spec {
	return Spec{Policy: PolicyExplicit, Fields: fields}
}

// String renders the spec in the notation accepted by Parse.
func (s Spec) String() string {
	switch s.Policy {
	case PolicyDefault:
		return ""
	case PolicyAuto, PolicyAll:
		return s.Policy.String()
	}
	parts := make([]string, len(s.Fields))
	for i, d := range s.Fields {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

// Parse reads an output format. The empty string selects PolicyDefault;
// "auto" and "all" select their policies; anything else is a list of column
// specs separated by commas or blanks. Each column is "0" for the join key
// or "F.N" where F is 1 or 2 and N is a 1-based field number or, when the
// inputs have header rows, a field name.
func Parse(format string) (Spec, error) {
	format = strings.TrimSpace(format)
	switch format {
	case "":
		return Spec{Policy: PolicyDefault}, nil
	case "auto":
		return Spec{Policy: PolicyAuto}, nil
	case "all":
		return Spec{Policy: PolicyAll}, nil
	}

	cols := strings.FieldsFunc(format, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	fields := make([]Descriptor, 0, len(cols))
	for _, col := range cols {
		d, err := parseColumn(col)
		if err != nil {
			return Spec{}, err
		}
		fields = append(fields, d)
	}
	return Explicit(fields...), nil
}

func parseColumn(col string) (Descriptor, error) {
	if col == "0" {
		return Key(), nil
	}
	file, field, ok := strings.Cut(col, ".")
	if !ok || field == "" || (file != "1" && file != "2") {
		return Descriptor{}, fmt.Errorf("%w: column %q", ErrBadFormat, col)
	}
	f := int(file[0] - '0')

	n, err := strconv.Atoi(field)
	if err != nil {
		return NamedField(f, field), nil
	}
	if n < 1 {
		return Descriptor{}, fmt.Errorf("%w: column %q: field numbers start at 1", ErrBadFormat, col)
	}
	return Field(f, n-1), nil
}

// ResolveNames replaces named fields with indices looked up in the header
// rows of file 1 (left) and file 2 (right). Headers may be nil when the
// inputs have none; named fields then fail with header.ErrHeaderRequired.
func (s Spec) ResolveNames(left, right *record.FieldView) (Spec, error) {
	if s.Policy != PolicyExplicit {
		return s, nil
	}
	out := make([]Descriptor, len(s.Fields))
	for i, d := range s.Fields {
		out[i] = d
		if d.Kind != KindField || d.Field.Resolved() {
			continue
		}
		hdr := left
		if d.File == 2 {
			hdr = right
		}
		idx, err := header.Resolve(d.Field, hdr)
		if err != nil {
			return Spec{}, fmt.Errorf("output column %d.%s: %w", d.File, d.Field.Name, err)
		}
		out[i].Field = header.Index(idx)
	}
	return Explicit(out...), nil
}

// Layout describes both sides as observed on their first record.
type Layout struct {
	LeftWidth  int
	RightWidth int
	LeftKeys   []int
	RightKeys  []int
}

// Expand turns the spec into the descriptor list used for every row.
func (s Spec) Expand(l Layout) []Descriptor {
	switch s.Policy {
	case PolicyExplicit:
		return append([]Descriptor(nil), s.Fields...)
	case PolicyAll:
		out := []Descriptor{Key()}
		out = appendRange(out, 1, l.LeftWidth, nil)
		return appendRange(out, 2, l.RightWidth, nil)
	default:
		out := []Descriptor{Key()}
		out = appendRange(out, 1, l.LeftWidth, l.LeftKeys)
		return appendRange(out, 2, l.RightWidth, l.RightKeys)
	}
}

func appendRange(out []Descriptor, file, width int, skip []int) []Descriptor {
	for i := 0; i < width; i++ {
		if isKey(skip, i) {
			continue
		}
		out = append(out, Field(file, i))
	}
	return out
}

func isKey(keys []int, i int) bool {
	for _, k := range keys {
		if k == i {
			return true
		}
	}
	return false
}
