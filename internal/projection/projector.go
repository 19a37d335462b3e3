package projection

import (
	"strings"

	"github.com/roach88/mjoin/internal/record"
)

// Projector renders one output line per emitted row.
type Projector struct {
	fields  []Descriptor
	delim   string
	missing [3]string // indexed by file number
}

// NewProjector creates a projector over resolved descriptors. leftMissing
// and rightMissing replace fields of an absent side.
func NewProjector(fields []Descriptor, delim, leftMissing, rightMissing string) *Projector {
	p := &Projector{fields: fields, delim: delim}
	p.missing[1] = leftMissing
	p.missing[2] = rightMissing
	return p
}

// Fields returns the descriptors the projector renders.
func (p *Projector) Fields() []Descriptor {
	return p.fields
}

// Render builds the output line for one row. A nil record means that side
// is absent: its field columns take the side's missing placeholder. At least
// one side must be present.
func (p *Projector) Render(left, right *record.Record) string {
	var b strings.Builder
	for i, d := range p.fields {
		if i > 0 {
			b.WriteString(p.delim)
		}
		switch d.Kind {
		case KindKey:
			p.writeKey(&b, left, right)
		case KindField:
			rec := left
			if d.File == 2 {
				rec = right
			}
			b.WriteString(p.fieldValue(d, rec))
		}
	}
	return b.String()
}

// writeKey writes the key of the present side, left first. When both are
// present the keys are equal by construction.
func (p *Projector) writeKey(b *strings.Builder, left, right *record.Record) {
	rec := left
	if rec == nil {
		rec = right
	}
	for i, k := range rec.Keys {
		if i > 0 {
			b.WriteString(p.delim)
		}
		b.WriteString(k)
	}
}

func (p *Projector) fieldValue(d Descriptor, rec *record.Record) string {
	if rec == nil {
		return p.missing[d.File]
	}
	v, _ := rec.View.Lookup(d.Field.Index)
	return v
}
