package expr

import (
	"sort"

	"github.com/MichaelPaddon/epsilon/charset"
)

// Nullable returns Epsilon if ε ∈ L(e), else Empty. The result is
// memoized on e's node, since the worklist DFA construction in
// package dfa calls it repeatedly on shared subexpressions.
func (e Expr) Nullable() Expr {
	n := e.node()
	if n.nullability == 0 {
		n.nullability = computeNullability(e)
	}
	if n.nullability == 1 {
		return e.pool.Empty()
	}
	return e.pool.Epsilon()
}

func computeNullability(e Expr) int8 {
	p := e.pool
	switch e.Kind() {
	case KindEmpty, KindChars:
		return 1
	case KindEpsilon:
		return 2
	case KindConcat:
		ops := e.Operands()
		return nullabilityOf(p.MustAnd(ops[0].Nullable(), ops[1].Nullable()))
	case KindAlt:
		return nullabilityOf(p.MustAlt(nullableOperands(p, e)...))
	case KindAnd:
		return nullabilityOf(p.MustAnd(nullableOperands(p, e)...))
	case KindNot:
		if nullabilityOf(e.Operands()[0].Nullable()) == 1 {
			return 2
		}
		return 1
	case KindStar:
		return 2
	case KindTag:
		return nullabilityOf(e.Operands()[0].Nullable())
	default:
		return 1
	}
}

func nullableOperands(p *Pool, e Expr) []Expr {
	ops := e.Operands()
	out := make([]Expr, len(ops))
	for i, o := range ops {
		out[i] = o.Nullable()
	}
	return out
}

func nullabilityOf(e Expr) int8 {
	if e.Kind() == KindEpsilon {
		return 2
	}
	return 1
}

// Derivative returns d(e, c): the expression w such that s ∈ L(w) iff
// cs ∈ L(e). Results are memoized per witness code point, since the
// DFA builder derives the same shared subexpression along many paths.
func (e Expr) Derivative(c rune) (Expr, error) {
	n := e.node()
	if n.derivCache == nil {
		n.derivCache = map[rune]id{}
	}
	if cached, ok := n.derivCache[c]; ok {
		return Expr{e.pool, cached}, nil
	}
	d, err := computeDerivative(e, c)
	if err != nil {
		return Expr{}, err
	}
	n.derivCache[c] = d.id
	return d, nil
}

func computeDerivative(e Expr, c rune) (Expr, error) {
	p := e.pool
	switch e.Kind() {
	case KindEmpty, KindEpsilon:
		return p.Empty(), nil
	case KindChars:
		s, _ := e.CharSet()
		if s.Contains(c) {
			return p.Epsilon(), nil
		}
		return p.Empty(), nil
	case KindConcat:
		ops := e.Operands()
		da, err := ops[0].Derivative(c)
		if err != nil {
			return Expr{}, err
		}
		db, err := ops[1].Derivative(c)
		if err != nil {
			return Expr{}, err
		}
		left, err := p.Concat(da, ops[1])
		if err != nil {
			return Expr{}, err
		}
		right, err := p.Concat(ops[0].Nullable(), db)
		if err != nil {
			return Expr{}, err
		}
		return p.Alt(left, right)
	case KindAlt:
		ds, err := derivativeOperands(e, c)
		if err != nil {
			return Expr{}, err
		}
		return p.Alt(ds...)
	case KindAnd:
		ds, err := derivativeOperands(e, c)
		if err != nil {
			return Expr{}, err
		}
		return p.And(ds...)
	case KindNot:
		d, err := e.Operands()[0].Derivative(c)
		if err != nil {
			return Expr{}, err
		}
		return p.Not(d)
	case KindStar:
		child := e.Operands()[0]
		d, err := child.Derivative(c)
		if err != nil {
			return Expr{}, err
		}
		return p.Concat(d, e)
	case KindTag:
		t, _ := e.Tag()
		d, err := e.Operands()[0].Derivative(c)
		if err != nil {
			return Expr{}, err
		}
		return p.Tag(t, d)
	default:
		return p.Empty(), nil
	}
}

func derivativeOperands(e Expr, c rune) ([]Expr, error) {
	ops := e.Operands()
	out := make([]Expr, len(ops))
	for i, o := range ops {
		d, err := o.Derivative(c)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// Partition returns C(e): the coarsest partition of Σ such that every
// code point within one class induces the same derivative of e. The
// result is sorted by charset.Compare for deterministic iteration, and
// memoized since every state in the DFA builder calls it exactly once
// but shared subexpressions recompute it across states otherwise.
func (e Expr) Partition() []charset.Set {
	n := e.node()
	if n.partition == nil {
		n.partition = computePartition(e)
	}
	return n.partition
}

func computePartition(e Expr) []charset.Set {
	switch e.Kind() {
	case KindEmpty, KindEpsilon:
		return []charset.Set{charset.Full()}
	case KindChars:
		s, _ := e.CharSet()
		comp := s.Complement()
		if comp.IsEmpty() {
			return sortClasses([]charset.Set{s})
		}
		return sortClasses([]charset.Set{s, comp})
	case KindConcat:
		ops := e.Operands()
		if nullabilityOf(ops[0].Nullable()) != 2 {
			return ops[0].Partition()
		}
		return refine(ops[0].Partition(), ops[1].Partition())
	case KindAlt, KindAnd, KindNot, KindStar, KindTag:
		ops := e.Operands()
		result := ops[0].Partition()
		for _, o := range ops[1:] {
			result = refine(result, o.Partition())
		}
		return result
	default:
		return sortClasses([]charset.Set{charset.Full()})
	}
}

// refine computes the common refinement Π1 ∧ Π2: the non-empty
// pairwise intersections of two partitions of Σ, which is again a
// partition of Σ.
func refine(a, b []charset.Set) []charset.Set {
	out := make([]charset.Set, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			z := x.Intersect(y)
			if !z.IsEmpty() {
				out = append(out, z)
			}
		}
	}
	return sortClasses(out)
}

func sortClasses(cs []charset.Set) []charset.Set {
	sort.Slice(cs, func(i, j int) bool { return charset.Compare(cs[i], cs[j]) < 0 })
	return cs
}

// Accept scans the top-level Tag structure of a DFA state expression
// and returns the accepting token with the smallest id, if any. A
// reachable state is always Empty, a single Tag, or an Alt whose
// children are themselves Tag nodes: the root of a compiled
// specification is Alt(Tag(t1, ...), ..., Tag(tn, ...)), and every
// constructor used by Derivative keeps Tag at the top of the tree
// (d(Tag(t,a),c) = Tag(t, d(a,c)), d(Alt(xs),c) = Alt(map d xs)), so
// the invariant holds at every state the builder visits.
func Accept(e Expr) (TokenID, bool) {
	switch e.Kind() {
	case KindTag:
		t, _ := e.Tag()
		child := e.Operands()[0]
		if nullabilityOf(child.Nullable()) == 2 {
			return t, true
		}
		return 0, false
	case KindAlt:
		best := TokenID(0)
		found := false
		for _, k := range e.Operands() {
			if t, ok := Accept(k); ok {
				if !found || t < best {
					best, found = t, true
				}
			}
		}
		return best, found
	default:
		return 0, false
	}
}
