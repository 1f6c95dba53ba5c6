package dfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelPaddon/epsilon/charset"
	"github.com/MichaelPaddon/epsilon/expr"
	"github.com/MichaelPaddon/epsilon/lexspec"
)

func build(t *testing.T, s *lexspec.Spec) *DFA {
	t.Helper()
	pool := expr.NewPool()
	res, err := lexspec.Resolve(s, pool)
	require.NoError(t, err)
	d, err := Build(res.Root, res.TokenNames)
	require.NoError(t, err)
	return d
}

func chars(lo, hi rune) lexspec.Node {
	return lexspec.Chars{Set: charset.MustOf(lo, hi)}
}

func concat(ns ...lexspec.Node) lexspec.Node {
	out := ns[len(ns)-1]
	for i := len(ns) - 2; i >= 0; i-- {
		out = lexspec.Concat{Left: ns[i], Right: out}
	}
	return out
}

func TestScanMaximalMunch(t *testing.T) {
	// a = x|y, b = xy: input "xy" must munch the whole thing as one b,
	// never split into a("x") then something for "y".
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "a", Pattern: lexspec.Alt{Terms: []lexspec.Node{chars('x', 'x'+1), chars('y', 'y'+1)}}},
		{Name: "b", Pattern: concat(chars('x', 'x'+1), chars('y', 'y'+1))},
	}}
	d := build(t, s)

	toks, err := Scan(d, []rune("xy"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "b", toks[0].Name)
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, 2, toks[0].End)
}

func TestScanPriorityTieBreak(t *testing.T) {
	// kw and id both match "if"; kw is declared first and must win.
	kwPattern := concat(chars('i', 'i'+1), chars('f', 'f'+1))
	idPattern := lexspec.Star{Term: chars('a', 'z'+1)}
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "kw", Pattern: kwPattern},
		{Name: "id", Pattern: idPattern},
	}}
	d := build(t, s)

	toks, err := Scan(d, []rune("if"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "kw", toks[0].Name)
}

func TestScanTokenizesIdentifiersAndNumbers(t *testing.T) {
	digit := chars('0', '9'+1)
	alpha := chars('a', 'z'+1)
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "num", Pattern: lexspec.Concat{Left: digit, Right: lexspec.Star{Term: digit}}},
		{Name: "id", Pattern: lexspec.Concat{Left: alpha, Right: lexspec.Star{Term: alpha}}},
		{Name: "ws", Pattern: lexspec.Star{Term: chars(' ', ' '+1)}},
	}}
	d := build(t, s)

	toks, err := Scan(d, []rune("ab12"))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "id", toks[0].Name)
	assert.Equal(t, "ab", string([]rune("ab12")[toks[0].Start:toks[0].End]))
	assert.Equal(t, "num", toks[1].Name)
}

func TestScanReportsUnmatchedInput(t *testing.T) {
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "a", Pattern: chars('a', 'a'+1)},
	}}
	d := build(t, s)

	_, err := Scan(d, []rune("ab"))
	require.Error(t, err)
	var unmatched *UnmatchedInputError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, 1, unmatched.Pos)
	assert.Equal(t, 'b', unmatched.Rune)
}

func TestScanComplementExcludesKeyword(t *testing.T) {
	// neg = !(if), over the fixed alphabet [f-i]: "if" itself must be
	// rejected by neg but any other string over [f-i] accepted.
	alphabet := charset.MustOf('f', 'i'+1)
	kw := concat(chars('i', 'i'+1), chars('f', 'f'+1))
	negBody := lexspec.And{Terms: []lexspec.Node{
		lexspec.Not{Term: kw},
		lexspec.Star{Term: lexspec.Chars{Set: alphabet}},
	}}
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "neg", Pattern: negBody},
	}}
	d := build(t, s)

	// "if" equals the excluded keyword, so the longest accepted prefix
	// is just "i"; munching must not swallow the "f" into the same token.
	toks, err := Scan(d, []rune("if"))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, 1, toks[0].End-toks[0].Start)

	toks, err = Scan(d, []rune("fi"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "neg", toks[0].Name)
}

func TestScanComplementOverFullAlphabetRejectsAllDigitRun(t *testing.T) {
	// neg = !([0-9]+), over the full alphabet (no restricting Star term
	// this time): every prefix of "12" of length >= 1 is itself in
	// [0-9]+ and so excluded from L(neg). Only the empty prefix is
	// accepted, and a zero-length match must not be reported as a
	// token: it must fail UnmatchedInput at the very first digit.
	digit := chars('0', '9'+1)
	a := lexspec.Concat{Left: digit, Right: lexspec.Star{Term: digit}}
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "neg", Pattern: lexspec.Not{Term: a}},
	}}
	d := build(t, s)

	toks, err := Scan(d, []rune("abc"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "neg", toks[0].Name)
	assert.Equal(t, 3, toks[0].End-toks[0].Start)

	_, err = Scan(d, []rune("12"))
	require.Error(t, err)
	var unmatched *UnmatchedInputError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, 0, unmatched.Pos)
	assert.Equal(t, '1', unmatched.Rune)
}

func TestBuildCollapsesDeadStates(t *testing.T) {
	s := &lexspec.Spec{Tokens: []lexspec.Token{
		{Name: "a", Pattern: chars('a', 'a'+1)},
	}}
	d := build(t, s)
	require.GreaterOrEqual(t, d.Dead, StateID(0), "an 'a'-only token must have a dead state for every other input")
	deadState := d.States[d.Dead]
	assert.False(t, deadState.Accepting)
	for _, tr := range deadState.Transitions {
		assert.Equal(t, d.Dead, tr.Target, "the dead state must self-loop on all of Σ")
	}
}
