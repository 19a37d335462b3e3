package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mjoin/internal/record"
)

func rec(line string, keys ...int) *record.Record {
	r := record.New(line, '\t', keys)
	return &r
}

func TestRender_Matched(t *testing.T) {
	p := NewProjector([]Descriptor{Key(), Field(1, 1), Field(2, 1)}, "\t", "-", "-")

	got := p.Render(rec("2\tB", 0), rec("2\tX", 0))
	assert.Equal(t, "2\tB\tX", got)
}

func TestRender_AbsentSideUsesItsPlaceholder(t *testing.T) {
	p := NewProjector([]Descriptor{Key(), Field(1, 1), Field(2, 1), Field(2, 2)}, "\t", "L?", "R?")

	assert.Equal(t, "1\tA\tR?\tR?", p.Render(rec("1\tA", 0), nil))
	assert.Equal(t, "3\tL?\tY\t", p.Render(nil, rec("3\tY", 0)))
}

func TestRender_ShortRowYieldsEmptyString(t *testing.T) {
	p := NewProjector([]Descriptor{Field(1, 0), Field(1, 5)}, ",", "-", "-")

	assert.Equal(t, "a,", p.Render(rec("a\tb", 0), nil))
}

func TestRender_CompositeKeyEmitsOneColumnPerKeyField(t *testing.T) {
	p := NewProjector([]Descriptor{Key(), Field(1, 2), Field(2, 2)}, "|", "", "")

	got := p.Render(rec("a\tb\tX", 0, 1), rec("a\tb\tY", 0, 1))
	assert.Equal(t, "a|b|X|Y", got)
}

func TestRender_KeyFromRightWhenLeftAbsent(t *testing.T) {
	p := NewProjector([]Descriptor{Key()}, "\t", "-", "-")
	assert.Equal(t, "k", p.Render(nil, rec("v\tk", 1)))
}

func TestRender_EmptyDescriptorList(t *testing.T) {
	p := NewProjector(nil, "\t", "-", "-")
	assert.Equal(t, "", p.Render(rec("a", 0), nil))
	assert.Empty(t, p.Fields())
}
