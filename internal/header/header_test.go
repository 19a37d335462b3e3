package header

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjoin/internal/record"
)

func TestLookup(t *testing.T) {
	hdr := record.Split("id\tname\tid", '\t')

	i, ok := Lookup(hdr, "name")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = Lookup(hdr, "id")
	assert.True(t, ok)
	assert.Equal(t, 0, i, "first match wins")

	_, ok = Lookup(hdr, "missing")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	hdr := record.Split("id\tname", '\t')

	i, err := Resolve(Index(3), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	i, err = Resolve(Named("name"), &hdr)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = Resolve(Named("name"), nil)
	assert.ErrorIs(t, err, ErrHeaderRequired)

	_, err = Resolve(Named("zip"), &hdr)
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, err.Error(), `"zip"`)

	_, err = Resolve(Index(-1), nil)
	assert.Error(t, err)
}

func TestResolveAll(t *testing.T) {
	hdr := record.Split("a\tb\tc", '\t')

	idx, err := ResolveAll([]FieldRef{Named("c"), Index(0)}, &hdr)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, idx)

	_, err = ResolveAll([]FieldRef{Index(0), Named("z")}, &hdr)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldRefString(t *testing.T) {
	assert.Equal(t, "2", Index(2).String())
	assert.Equal(t, `"name"`, Named("name").String())
	assert.True(t, Index(0).Resolved())
	assert.False(t, Named("x").Resolved())
}

func TestParse(t *testing.T) {
	ref, err := Parse("1")
	require.NoError(t, err)
	assert.Equal(t, Index(0), ref)

	ref, err = Parse("id")
	require.NoError(t, err)
	assert.Equal(t, Named("id"), ref)

	_, err = Parse("0")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	refs, err := ParseList("2, name,1")
	require.NoError(t, err)
	assert.Equal(t, []FieldRef{Index(1), Named("name"), Index(0)}, refs)

	_, err = ParseList("1,,2")
	assert.Error(t, err)
}
