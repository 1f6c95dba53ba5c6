package dfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelPaddon/epsilon/compact"
	"github.com/MichaelPaddon/epsilon/lexspec"
)

func TestCompactDFAAgreesWithDFA(t *testing.T) {
	digit := chars('0', '9'+1)
	alpha := chars('a', 'z'+1)
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "num", Pattern: lexspec.Concat{Left: digit, Right: lexspec.Star{Term: digit}}},
		{Name: "id", Pattern: lexspec.Concat{Left: alpha, Right: lexspec.Star{Term: alpha}}},
	}}
	d := build(t, s)

	for _, table := range []compact.Table{compact.NewUniqueRowTable(), compact.NewDisplacementTable(int32(d.Dead))} {
		cd, err := Compact(d, table)
		require.NoError(t, err)

		for _, word := range []string{"ab12", "99cd", "x"} {
			runes := []rune(word)
			want, errWant := Scan(d, runes)
			got, errGot := Scan(cd, runes)
			require.NoError(t, errWant)
			require.NoError(t, errGot)
			assert.Equal(t, want, got, "compacted automaton must tokenize identically to %T", table)
		}
	}
}

func TestGlobalAlphabetCoversSigma(t *testing.T) {
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "a", Pattern: chars('a', 'c')},
	}}
	d := build(t, s)
	classes := GlobalAlphabet(d)
	require.NotEmpty(t, classes)

	for _, c := range []rune{'a', 'b', 'c', 'z', 0} {
		idx := classIndex(classes, c)
		assert.GreaterOrEqualf(t, idx, 0, "rune %q must fall in some global class", c)
	}
}
