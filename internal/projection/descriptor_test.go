package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/record"
)

func TestParse_Policies(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", PolicyDefault},
		{"  ", PolicyDefault},
		{"auto", PolicyAuto},
		{"all", PolicyAll},
		{"0,1.2", PolicyExplicit},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Policy)
		})
	}
}

func TestParse_ExplicitColumns(t *testing.T) {
	s, err := Parse("0,1.2 2.1,2.name")
	require.NoError(t, err)

	assert.Equal(t, []Descriptor{
		Key(),
		Field(1, 1),
		Field(2, 0),
		NamedField(2, "name"),
	}, s.Fields)
	assert.Equal(t, "0,1.2,2.1,2.name", s.String())
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"3.1", "1", "1.", "1.0", "x", "0,2.-1"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrBadFormat)
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "gnu-default", PolicyDefault.String())
	assert.Equal(t, "auto", PolicyAuto.String())
	assert.Equal(t, "all", PolicyAll.String())
	assert.Equal(t, "explicit", PolicyExplicit.String())
}

func TestExpand_DefaultAndAutoSkipKeyFields(t *testing.T) {
	l := Layout{LeftWidth: 3, RightWidth: 2, LeftKeys: []int{1}, RightKeys: []int{0}}
	want := []Descriptor{Key(), Field(1, 0), Field(1, 2), Field(2, 1)}

	assert.Equal(t, want, Spec{Policy: PolicyDefault}.Expand(l))
	assert.Equal(t, want, Spec{Policy: PolicyAuto}.Expand(l))
}

func TestExpand_All(t *testing.T) {
	l := Layout{LeftWidth: 2, RightWidth: 1, LeftKeys: []int{0}, RightKeys: []int{0}}

	assert.Equal(t,
		[]Descriptor{Key(), Field(1, 0), Field(1, 1), Field(2, 0)},
		Spec{Policy: PolicyAll}.Expand(l))
}

func TestExpand_ExplicitIsCopied(t *testing.T) {
	s := Explicit(Field(2, 0), Key())
	got := s.Expand(Layout{})
	assert.Equal(t, s.Fields, got)

	got[0] = Key()
	assert.Equal(t, Field(2, 0), s.Fields[0])
}

func TestResolveNames(t *testing.T) {
	lh := record.Split("id\tname", '\t')
	rh := record.Split("id\tcity", '\t')

	s, err := Parse("0,1.name,2.city,2.1")
	require.NoError(t, err)

	r, err := s.ResolveNames(&lh, &rh)
	require.NoError(t, err)
	assert.Equal(t, []Descriptor{Key(), Field(1, 1), Field(2, 1), Field(2, 0)}, r.Fields)

	_, err = s.ResolveNames(nil, nil)
	assert.ErrorIs(t, err, header.ErrHeaderRequired)

	bad, err := Parse("1.zip")
	require.NoError(t, err)
	_, err = bad.ResolveNames(&lh, &rh)
	assert.ErrorIs(t, err, header.ErrUnknownField)
}

func TestResolveNames_PoliciesPassThrough(t *testing.T) {
	s := Spec{Policy: PolicyAuto}
	r, err := s.ResolveNames(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, s, r)
}
