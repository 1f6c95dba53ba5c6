// Package expr implements the hash-consed, canonical regular
// expression algebra that the DFA builder drives with Brzozowski
// derivatives. Every Expr value is interned: structurally equal terms,
// built through the smart constructors on a Pool, share one identity,
// so Go's == compares languages-up-to-the-canonicalisation-laws in
// O(1) rather than walking trees.
package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MichaelPaddon/epsilon/charset"
)

// TokenID names a token an expression has been tagged with. It is
// assigned by the caller (package lexspec); the algebra only ever
// threads it through Tag nodes.
type TokenID int32

// Kind discriminates the variants of the expression algebra.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindEpsilon
	KindChars
	KindConcat
	KindAlt
	KindAnd
	KindNot
	KindStar
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindEpsilon:
		return "Epsilon"
	case KindChars:
		return "Chars"
	case KindConcat:
		return "Concat"
	case KindAlt:
		return "Alt"
	case KindAnd:
		return "And"
	case KindNot:
		return "Not"
	case KindStar:
		return "Star"
	case KindTag:
		return "Tag"
	default:
		return "?"
	}
}

type id int32

// OverflowError reports that the interner ran out of identities. With
// a 32-bit id space this is not reachable by any real specification;
// it exists so the contract has a defined failure mode rather than an
// undefined one.
type OverflowError struct{}

func (e *OverflowError) Error() string {
	return "expr: interner identity space exhausted"
}

const maxID = 1<<31 - 1

type node struct {
	kind  Kind
	chars charset.Set
	left  id // Concat
	right id // Concat
	kids  []id
	child id // Not, Star, Tag
	tag   TokenID

	nullability int8 // 0 = unknown, 1 = Empty, 2 = Epsilon
	partition   []charset.Set
	derivCache  map[rune]id
}

// Pool owns the storage for one compilation's worth of interned
// expressions. It is not safe for concurrent use; compilation is
// single-threaded (see package dfa). Once the DFA has been built, the
// Pool may be dropped.
type Pool struct {
	nodes    []*node
	interned map[string]id

	emptyID   id
	epsilonID id
}

// NewPool creates an empty interner, pre-seeded with the Empty and
// Epsilon terms shared by every expression it will ever build.
func NewPool() *Pool {
	p := &Pool{interned: map[string]id{}}
	p.emptyID = p.mustIntern("0", &node{kind: KindEmpty})
	p.epsilonID = p.mustIntern("1", &node{kind: KindEpsilon})
	return p
}

func (p *Pool) mustIntern(key string, n *node) id {
	id, err := p.intern(key, n)
	if err != nil {
		panic(err)
	}
	return id
}

func (p *Pool) intern(key string, n *node) (id, error) {
	if existing, ok := p.interned[key]; ok {
		return existing, nil
	}
	if len(p.nodes) >= maxID {
		return 0, &OverflowError{}
	}
	newID := id(len(p.nodes))
	p.nodes = append(p.nodes, n)
	p.interned[key] = newID
	return newID, nil
}

// Expr is a value from the expression algebra. It is a thin, copyable
// handle (pool pointer + identity) comparable with ==: a == b iff a
// and b denote syntactically identical canonical terms.
type Expr struct {
	pool *Pool
	id   id
}

func (e Expr) node() *node {
	return e.pool.nodes[e.id]
}

// Kind reports which algebra variant e is.
func (e Expr) Kind() Kind {
	return e.node().kind
}

// CharSet returns the character set of a KindChars expression. ok is
// false for any other kind.
func (e Expr) CharSet() (s charset.Set, ok bool) {
	n := e.node()
	if n.kind != KindChars {
		return charset.Set{}, false
	}
	return n.chars, true
}

// Tag returns the token id of a KindTag expression. ok is false for
// any other kind.
func (e Expr) Tag() (t TokenID, ok bool) {
	n := e.node()
	if n.kind != KindTag {
		return 0, false
	}
	return n.tag, true
}

// Operands returns e's immediate children in a canonical order: for
// Concat, (left, right); for Alt and And, the sorted, deduplicated
// term list; for Not, Star and Tag, the single child. Leaves (Empty,
// Epsilon, Chars) return nil.
func (e Expr) Operands() []Expr {
	n := e.node()
	switch n.kind {
	case KindConcat:
		return []Expr{{e.pool, n.left}, {e.pool, n.right}}
	case KindAlt, KindAnd:
		out := make([]Expr, len(n.kids))
		for i, k := range n.kids {
			out[i] = Expr{e.pool, k}
		}
		return out
	case KindNot, KindStar, KindTag:
		return []Expr{{e.pool, n.child}}
	default:
		return nil
	}
}

// Pool returns the interner that e belongs to.
func (e Expr) Pool() *Pool {
	return e.pool
}

func (e Expr) String() string {
	return sprint(e, map[id]bool{})
}

func sprint(e Expr, seen map[id]bool) string {
	n := e.node()
	switch n.kind {
	case KindEmpty:
		return "∅"
	case KindEpsilon:
		return "ε"
	case KindChars:
		return n.chars.String()
	case KindConcat:
		return fmt.Sprintf("(%s . %s)", sprint(Expr{e.pool, n.left}, seen), sprint(Expr{e.pool, n.right}, seen))
	case KindAlt:
		parts := make([]string, len(n.kids))
		for i, k := range n.kids {
			parts[i] = sprint(Expr{e.pool, k}, seen)
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case KindAnd:
		parts := make([]string, len(n.kids))
		for i, k := range n.kids {
			parts[i] = sprint(Expr{e.pool, k}, seen)
		}
		return "(" + strings.Join(parts, " & ") + ")"
	case KindNot:
		return "!" + sprint(Expr{e.pool, n.child}, seen)
	case KindStar:
		return sprint(Expr{e.pool, n.child}, seen) + "*"
	case KindTag:
		return fmt.Sprintf("<%d:%s>", n.tag, sprint(Expr{e.pool, n.child}, seen))
	default:
		return "?"
	}
}

// Empty returns ∅, the expression matching no string.
func (p *Pool) Empty() Expr {
	return Expr{p, p.emptyID}
}

// Epsilon returns the expression matching only the empty string.
func (p *Pool) Epsilon() Expr {
	return Expr{p, p.epsilonID}
}

// Chars returns the expression matching exactly one code point drawn
// from s. Chars(∅) canonicalises to Empty.
func (p *Pool) Chars(s charset.Set) (Expr, error) {
	if s.IsEmpty() {
		return p.Empty(), nil
	}
	id, err := p.intern("S:"+s.Key(), &node{kind: KindChars, chars: s})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, id}, nil
}

// MustChars is Chars, panicking on error (interner overflow only).
func (p *Pool) MustChars(s charset.Set) Expr {
	e, err := p.Chars(s)
	if err != nil {
		panic(err)
	}
	return e
}

// Concat returns the expression denoting L(a)·L(b), right-associated
// and with the Empty/Epsilon absorption and identity laws applied.
func (p *Pool) Concat(a, b Expr) (Expr, error) {
	switch {
	case a.Kind() == KindEmpty || b.Kind() == KindEmpty:
		return p.Empty(), nil
	case a.Kind() == KindEpsilon:
		return b, nil
	case b.Kind() == KindEpsilon:
		return a, nil
	case a.Kind() == KindConcat:
		ops := a.Operands()
		mid, err := p.Concat(ops[1], b)
		if err != nil {
			return Expr{}, err
		}
		return p.Concat(ops[0], mid)
	}
	nid, err := p.intern(fmt.Sprintf("C:%d,%d", a.id, b.id), &node{kind: KindConcat, left: a.id, right: b.id})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustConcat is Concat, panicking on error.
func (p *Pool) MustConcat(a, b Expr) Expr {
	e, err := p.Concat(a, b)
	if err != nil {
		panic(err)
	}
	return e
}

// Alt returns the canonicalised union of xs: nested Alt flattened,
// Empty dropped, Chars siblings folded by set union, terms sorted by
// identity and deduplicated.
func (p *Pool) Alt(xs ...Expr) (Expr, error) {
	var flat []Expr
	flattenInto(&flat, xs, KindAlt)

	var chars charset.Set
	haveChars := false
	seen := map[id]bool{}
	var rest []Expr
	for _, x := range flat {
		if x.Kind() == KindEmpty {
			continue
		}
		if x.Kind() == KindChars {
			s, _ := x.CharSet()
			chars = chars.Union(s)
			haveChars = true
			continue
		}
		if !seen[x.id] {
			seen[x.id] = true
			rest = append(rest, x)
		}
	}

	var terms []Expr
	if haveChars {
		ce, err := p.Chars(chars)
		if err != nil {
			return Expr{}, err
		}
		terms = append(terms, ce)
	}
	terms = append(terms, rest...)
	sort.Slice(terms, func(i, j int) bool { return terms[i].id < terms[j].id })

	switch len(terms) {
	case 0:
		return p.Empty(), nil
	case 1:
		return terms[0], nil
	}
	kids := make([]id, len(terms))
	var key strings.Builder
	key.WriteString("A:")
	for i, t := range terms {
		kids[i] = t.id
		if i > 0 {
			key.WriteByte(',')
		}
		key.WriteString(strconv.Itoa(int(t.id)))
	}
	nid, err := p.intern(key.String(), &node{kind: KindAlt, kids: kids})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustAlt is Alt, panicking on error.
func (p *Pool) MustAlt(xs ...Expr) Expr {
	e, err := p.Alt(xs...)
	if err != nil {
		panic(err)
	}
	return e
}

// And returns the canonicalised intersection of xs: nested And
// flattened, Empty absorbing, Σ* identity terms dropped, Chars
// siblings folded by set intersection, terms sorted and deduplicated.
// And() with no surviving terms is Σ*, represented as Not(Empty).
func (p *Pool) And(xs ...Expr) (Expr, error) {
	var flat []Expr
	flattenInto(&flat, xs, KindAnd)

	var chars charset.Set
	haveChars := false
	seen := map[id]bool{}
	var rest []Expr
	for _, x := range flat {
		if x.Kind() == KindEmpty {
			return p.Empty(), nil
		}
		if isSigma(x) {
			continue
		}
		if x.Kind() == KindChars {
			s, _ := x.CharSet()
			if haveChars {
				chars = chars.Intersect(s)
			} else {
				chars = s
			}
			haveChars = true
			continue
		}
		if !seen[x.id] {
			seen[x.id] = true
			rest = append(rest, x)
		}
	}

	var terms []Expr
	if haveChars {
		ce, err := p.Chars(chars)
		if err != nil {
			return Expr{}, err
		}
		if ce.Kind() == KindEmpty {
			return p.Empty(), nil
		}
		terms = append(terms, ce)
	}
	terms = append(terms, rest...)
	sort.Slice(terms, func(i, j int) bool { return terms[i].id < terms[j].id })

	if len(terms) == 0 {
		return p.Not(p.Empty())
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	kids := make([]id, len(terms))
	var key strings.Builder
	key.WriteString("N:")
	for i, t := range terms {
		kids[i] = t.id
		if i > 0 {
			key.WriteByte(',')
		}
		key.WriteString(strconv.Itoa(int(t.id)))
	}
	nid, err := p.intern(key.String(), &node{kind: KindAnd, kids: kids})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustAnd is And, panicking on error.
func (p *Pool) MustAnd(xs ...Expr) Expr {
	e, err := p.And(xs...)
	if err != nil {
		panic(err)
	}
	return e
}

func isSigma(e Expr) bool {
	if e.Kind() != KindNot {
		return false
	}
	return e.Operands()[0].Kind() == KindEmpty
}

func flattenInto(out *[]Expr, xs []Expr, k Kind) {
	for _, x := range xs {
		if x.Kind() == k {
			flattenInto(out, x.Operands(), k)
			continue
		}
		*out = append(*out, x)
	}
}

// Not returns Σ* \ L(a). Not(Not(a)) = a; Not(Empty) is kept literally
// as the Not(Empty) term, which is the canonical representation of Σ*.
func (p *Pool) Not(a Expr) (Expr, error) {
	if a.Kind() == KindNot {
		return a.Operands()[0], nil
	}
	nid, err := p.intern(fmt.Sprintf("!:%d", a.id), &node{kind: KindNot, child: a.id})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustNot is Not, panicking on error.
func (p *Pool) MustNot(a Expr) Expr {
	e, err := p.Not(a)
	if err != nil {
		panic(err)
	}
	return e
}

// Star returns L(a)*. Star(Empty) = Star(Epsilon) = Epsilon;
// Star(Star(a)) = Star(a).
func (p *Pool) Star(a Expr) (Expr, error) {
	switch a.Kind() {
	case KindEmpty, KindEpsilon:
		return p.Epsilon(), nil
	case KindStar:
		return a, nil
	}
	nid, err := p.intern(fmt.Sprintf("*:%d", a.id), &node{kind: KindStar, child: a.id})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustStar is Star, panicking on error.
func (p *Pool) MustStar(a Expr) Expr {
	e, err := p.Star(a)
	if err != nil {
		panic(err)
	}
	return e
}

// Tag wraps a with an accept label t. Tag is never simplified through
// by any other constructor: it is preserved verbatim so the DFA
// builder can find it again at the top of a state's expression.
func (p *Pool) Tag(t TokenID, a Expr) (Expr, error) {
	nid, err := p.intern(fmt.Sprintf("T:%d:%d", t, a.id), &node{kind: KindTag, child: a.id, tag: t})
	if err != nil {
		return Expr{}, err
	}
	return Expr{p, nid}, nil
}

// MustTag is Tag, panicking on error.
func (p *Pool) MustTag(t TokenID, a Expr) Expr {
	e, err := p.Tag(t, a)
	if err != nil {
		panic(err)
	}
	return e
}
