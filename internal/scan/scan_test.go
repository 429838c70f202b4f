package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanced(t *testing.T) {
	cases := []struct {
		name string
		src  string
		open byte
		shut byte
		want int
	}{
		{name: "flat", src: "{abc}", open: '{', shut: '}', want: 4},
		{name: "nested", src: "{a{b}c}tail", open: '{', shut: '}', want: 6},
		{name: "string literal", src: `{s := "}"}`, open: '{', shut: '}', want: 9},
		{name: "rune literal", src: `{r := '}'}`, open: '{', shut: '}', want: 9},
		{name: "raw string", src: "{`}`}", open: '{', shut: '}', want: 4},
		{name: "line comment", src: "{// }\n}", open: '{', shut: '}', want: 6},
		{name: "block comment", src: "{/* } */}", open: '{', shut: '}', want: 8},
		{name: "brackets", src: "[map[string]int]", open: '[', shut: ']', want: 15},
		{name: "apostrophe in prose", src: "{it's fine\n}", open: '{', shut: '}', want: 11},
		{name: "lifetime", src: "[&'a str]", open: '[', shut: ']', want: 8},
		{name: "lifetime then bracket", src: "[&'a mut [u8]]x'", open: '[', shut: ']', want: 13},
		{name: "escaped quote rune", src: `{q := '\''}`, open: '{', shut: '}', want: 10},
		{name: "hex escape rune", src: `{q := '\x7d'}`, open: '{', shut: '}', want: 12},
		{name: "multibyte rune", src: "{q := '√'}", open: '{', shut: '}', want: 11},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Balanced(tc.src, 0, tc.open, tc.shut)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBalancedErrors(t *testing.T) {
	_, err := Balanced("{abc", 0, '{', '}')
	require.Error(t, err)

	_, err = Balanced("abc", 0, '{', '}')
	require.Error(t, err)
}

func TestIsIdent(t *testing.T) {
	assert.True(t, IsIdent("NAME"))
	assert.True(t, IsIdent("_x1"))
	assert.True(t, IsIdent("ñame"))
	assert.False(t, IsIdent(""))
	assert.False(t, IsIdent("1x"))
	assert.False(t, IsIdent("a-b"))
}

func TestIdentAt(t *testing.T) {
	assert.Equal(t, "duplicate", IdentAt("duplicate [A]", 0))
	assert.Equal(t, "A1", IdentAt("[A1]", 1))
	assert.Equal(t, "", IdentAt("[A]", 0))
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "& mut", NormalizeToken("  &\tmut "))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestDedent(t *testing.T) {
	body := "\n\t\ttype A struct {\n\t\t\tB int\n\t\t}\n\n\t\tvar x A\n\t"
	want := "type A struct {\n\tB int\n}\n\nvar x A"
	assert.Equal(t, want, Dedent(body))
	assert.Equal(t, "", Dedent("\n  \n"))
	assert.Equal(t, "inline", Dedent("inline"))
}
