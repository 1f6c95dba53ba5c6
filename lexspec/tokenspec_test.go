package lexspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichaelPaddon/epsilon/charset"
	"github.com/MichaelPaddon/epsilon/expr"
)

func chars(lo, hi rune) Node {
	return Chars{Set: charset.MustOf(lo, hi)}
}

func TestValidateRejectsEmptySpec(t *testing.T) {
	s := &Spec{}
	assert.Error(t, s.Validate())
}

func TestValidateRejectsUnderscorePrefixedToken(t *testing.T) {
	s := &Spec{Tokens: []Token{{Name: "_id", Pattern: chars('a', 'b'+1)}}}
	assert.Error(t, s.Validate())
}

func TestValidateRejectsFragmentWithoutUnderscore(t *testing.T) {
	s := &Spec{
		Tokens:    []Token{{Name: "id", Pattern: chars('a', 'b'+1)}},
		Fragments: []Fragment{{Name: "digit", Pattern: chars('0', '9'+1)}},
	}
	assert.Error(t, s.Validate())
}

func TestValidateRejectsDuplicateTokenName(t *testing.T) {
	s := &Spec{Tokens: []Token{
		{Name: "id", Pattern: chars('a', 'b'+1)},
		{Name: "id", Pattern: chars('c', 'd'+1)},
	}}
	assert.Error(t, s.Validate())
}

func TestResolveWrapsTokensInDeclarationOrder(t *testing.T) {
	s := &Spec{Tokens: []Token{
		{Name: "kw", Pattern: Concat{Left: chars('i', 'i'+1), Right: chars('f', 'f'+1)}},
		{Name: "id", Pattern: chars('a', 'z'+1)},
	}}
	pool := expr.NewPool()
	res, err := Resolve(s, pool)
	require.NoError(t, err)
	assert.Equal(t, []string{"kw", "id"}, res.TokenNames)
	assert.Equal(t, expr.KindAlt, res.Root.Kind())
	assert.Empty(t, res.Warnings)
}

func TestResolveInterpolatesFragments(t *testing.T) {
	s := &Spec{
		Tokens: []Token{
			{Name: "num", Pattern: Concat{
				Left:  Ref{Name: "_digit"},
				Right: Star{Term: Ref{Name: "_digit"}},
			}},
		},
		Fragments: []Fragment{
			{Name: "_digit", Pattern: chars('0', '9'+1)},
		},
	}
	pool := expr.NewPool()
	res, err := Resolve(s, pool)
	require.NoError(t, err)

	tag := res.Root
	require.Equal(t, expr.KindTag, tag.Kind())
	body := tag.Operands()[0]
	digit := pool.MustChars(charset.MustOf('0', '9'+1))
	want := pool.MustConcat(digit, pool.MustStar(digit))
	assert.Equal(t, want, body)
}

func TestResolveInterpolatesNestedFragments(t *testing.T) {
	s := &Spec{
		Tokens: []Token{
			{Name: "id", Pattern: Ref{Name: "_ident"}},
		},
		Fragments: []Fragment{
			{Name: "_ident", Pattern: Concat{Left: Ref{Name: "_alpha"}, Right: Ref{Name: "_alpha"}}},
			{Name: "_alpha", Pattern: chars('a', 'z'+1)},
		},
	}
	pool := expr.NewPool()
	res, err := Resolve(s, pool)
	require.NoError(t, err)

	alpha := pool.MustChars(charset.MustOf('a', 'z'+1))
	want := pool.MustConcat(alpha, alpha)
	assert.Equal(t, want, res.Root.Operands()[0])
}

func TestResolveDetectsDirectCycle(t *testing.T) {
	s := &Spec{
		Tokens: []Token{{Name: "id", Pattern: Ref{Name: "_a"}}},
		Fragments: []Fragment{
			{Name: "_a", Pattern: Ref{Name: "_b"}},
			{Name: "_b", Pattern: Ref{Name: "_a"}},
		},
	}
	pool := expr.NewPool()
	_, err := Resolve(s, pool)
	require.Error(t, err)
	var cyc *CyclicFragmentError
	assert.ErrorAs(t, err, &cyc)
}

func TestResolveDetectsSelfCycle(t *testing.T) {
	s := &Spec{
		Tokens:    []Token{{Name: "id", Pattern: Ref{Name: "_a"}}},
		Fragments: []Fragment{{Name: "_a", Pattern: Star{Term: Ref{Name: "_a"}}}},
	}
	pool := expr.NewPool()
	_, err := Resolve(s, pool)
	var cyc *CyclicFragmentError
	assert.ErrorAs(t, err, &cyc)
}

func TestResolveRejectsUndefinedReference(t *testing.T) {
	s := &Spec{Tokens: []Token{{Name: "id", Pattern: Ref{Name: "_missing"}}}}
	pool := expr.NewPool()
	_, err := Resolve(s, pool)
	var undef *UndefinedReferenceError
	assert.ErrorAs(t, err, &undef)
}

func TestResolveWarnsOnEmptyLanguage(t *testing.T) {
	s := &Spec{Tokens: []Token{
		{Name: "never", Pattern: Empty{}},
		{Name: "ok", Pattern: chars('a', 'b'+1)},
	}}
	pool := expr.NewPool()
	res, err := Resolve(s, pool)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	var warn *EmptyLanguageWarning
	assert.ErrorAs(t, res.Warnings[0], &warn)
	assert.Equal(t, "never", warn.Token)
}

func TestResolveSharesFragmentAcrossTokens(t *testing.T) {
	s := &Spec{
		Tokens: []Token{
			{Name: "a", Pattern: Ref{Name: "_digit"}},
			{Name: "b", Pattern: Concat{Left: Ref{Name: "_digit"}, Right: Ref{Name: "_digit"}}},
		},
		Fragments: []Fragment{{Name: "_digit", Pattern: chars('0', '9'+1)}},
	}
	pool := expr.NewPool()
	res, err := Resolve(s, pool)
	require.NoError(t, err)

	tagA := res.Root.Operands()[0]
	tagB := res.Root.Operands()[1]
	digitInA := tagA.Operands()[0]
	digitInB := tagB.Operands()[0].Operands()[0]
	assert.Equal(t, digitInA, digitInB, "both tokens must share the interned fragment expression")
}
