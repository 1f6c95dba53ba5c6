package lexspec

import (
	"fmt"
	"strings"

	"github.com/MichaelPaddon/epsilon/expr"
)

// Token names a lexical alternative: a priority (its position in the
// slice, smallest wins ties) and the surface expression it matches.
type Token struct {
	Name    string
	Pattern Node
}

// Fragment names a sub-expression available for interpolation into
// tokens and other fragments via Ref. Fragments never themselves
// produce tokens.
type Fragment struct {
	Name    string
	Pattern Node
}

// Spec is an unresolved lexical specification: the direct surface
// counterpart of what a regex-syntax parser produces.
type Spec struct {
	Tokens    []Token
	Fragments []Fragment
}

// Validate checks the naming invariants: token names are unique and do
// not start with "_"; fragment names are unique and start with "_".
// It does not check interpolation, which Resolve handles since it
// requires walking the reference graph.
func (s *Spec) Validate() error {
	if len(s.Tokens) == 0 {
		return fmt.Errorf("lexspec: at least one token is required")
	}
	seen := make(map[string]bool, len(s.Tokens))
	for _, t := range s.Tokens {
		if strings.HasPrefix(t.Name, "_") {
			return fmt.Errorf("lexspec: token name %q must not start with '_'", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("lexspec: duplicate token name %q", t.Name)
		}
		seen[t.Name] = true
	}
	seenFrag := make(map[string]bool, len(s.Fragments))
	for _, f := range s.Fragments {
		if !strings.HasPrefix(f.Name, "_") {
			return fmt.Errorf("lexspec: fragment name %q must start with '_'", f.Name)
		}
		if seenFrag[f.Name] {
			return fmt.Errorf("lexspec: duplicate fragment name %q", f.Name)
		}
		seenFrag[f.Name] = true
	}
	return nil
}

// Result is a resolved specification: one interned expression per
// token, wrapped in Tag(i, ...) and combined as Alt(tag0, ..., tagN-1),
// ready for consumption by package dfa.
type Result struct {
	Root       expr.Expr
	TokenNames []string // TokenNames[i] is the name of expr.TokenID(i)
	Warnings   []error  // always *EmptyLanguageWarning
}

// Resolve validates s, detects fragment interpolation cycles with a
// depth-first grey/black walk, substitutes every Ref with its
// fragment's resolved expression, and wraps each token in Tag(i, ...)
// in declaration order. Cycle detection runs before substitution so
// that a cyclic fragment never causes unbounded recursion.
func Resolve(s *Spec, pool *expr.Pool) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	frags := make(map[string]Node, len(s.Fragments))
	for _, f := range s.Fragments {
		frags[f.Name] = f.Pattern
	}
	if err := detectCycles(frags); err != nil {
		return nil, err
	}

	memo := make(map[string]expr.Expr, len(frags))
	tags := make([]expr.Expr, len(s.Tokens))
	names := make([]string, len(s.Tokens))
	var warnings []error

	for i, t := range s.Tokens {
		e, err := convert(t.Pattern, pool, frags, memo)
		if err != nil {
			return nil, err
		}
		if e.Kind() == expr.KindEmpty {
			warnings = append(warnings, &EmptyLanguageWarning{Token: t.Name})
		}
		tag, err := pool.Tag(expr.TokenID(i), e)
		if err != nil {
			return nil, err
		}
		tags[i] = tag
		names[i] = t.Name
	}

	root, err := pool.Alt(tags...)
	if err != nil {
		return nil, err
	}
	return &Result{Root: root, TokenNames: names, Warnings: warnings}, nil
}

// color marks DFS visitation state for cycle detection: white (unvisited),
// grey (on the current path), black (fully explored, known acyclic).
type color uint8

const (
	white color = iota
	grey
	black
)

func detectCycles(frags map[string]Node) error {
	colors := make(map[string]color, len(frags))

	var visit func(name string) error
	visit = func(name string) error {
		switch colors[name] {
		case black:
			return nil
		case grey:
			return &CyclicFragmentError{Name: name}
		}
		colors[name] = grey
		for _, ref := range refsIn(frags[name]) {
			if _, ok := frags[ref]; !ok {
				return &UndefinedReferenceError{Name: ref}
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		colors[name] = black
		return nil
	}

	// Iterate in a stable order so that which fragment a cycle error
	// reports first is deterministic.
	for _, name := range sortedKeys(frags) {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// refsIn collects the names of every Ref reachable within a single
// fragment's own tree, without descending through a Ref itself: that
// edge is what detectCycles' DFS follows next.
func refsIn(n Node) []string {
	switch v := n.(type) {
	case Ref:
		return []string{v.Name}
	case Concat:
		return append(refsIn(v.Left), refsIn(v.Right)...)
	case Alt:
		var out []string
		for _, t := range v.Terms {
			out = append(out, refsIn(t)...)
		}
		return out
	case And:
		var out []string
		for _, t := range v.Terms {
			out = append(out, refsIn(t)...)
		}
		return out
	case Not:
		return refsIn(v.Term)
	case Star:
		return refsIn(v.Term)
	default:
		return nil
	}
}

// convert interns n into pool, resolving Ref by lazily resolving and
// memoizing the referenced fragment. frags is known acyclic by the
// time convert runs, so the recursion through Ref always terminates.
func convert(n Node, pool *expr.Pool, frags map[string]Node, memo map[string]expr.Expr) (expr.Expr, error) {
	switch v := n.(type) {
	case Ref:
		if e, ok := memo[v.Name]; ok {
			return e, nil
		}
		target, ok := frags[v.Name]
		if !ok {
			return expr.Expr{}, &UndefinedReferenceError{Name: v.Name}
		}
		e, err := convert(target, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		memo[v.Name] = e
		return e, nil
	case Chars:
		return pool.Chars(v.Set)
	case Concat:
		l, err := convert(v.Left, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		r, err := convert(v.Right, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		return pool.Concat(l, r)
	case Alt:
		terms, err := convertAll(v.Terms, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		return pool.Alt(terms...)
	case And:
		terms, err := convertAll(v.Terms, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		return pool.And(terms...)
	case Not:
		c, err := convert(v.Term, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		return pool.Not(c)
	case Star:
		c, err := convert(v.Term, pool, frags, memo)
		if err != nil {
			return expr.Expr{}, err
		}
		return pool.Star(c)
	case Epsilon:
		return pool.Epsilon(), nil
	case Empty:
		return pool.Empty(), nil
	default:
		return expr.Expr{}, fmt.Errorf("lexspec: unhandled node type %T", n)
	}
}

func convertAll(ns []Node, pool *expr.Pool, frags map[string]Node, memo map[string]expr.Expr) ([]expr.Expr, error) {
	out := make([]expr.Expr, len(ns))
	for i, n := range ns {
		e, err := convert(n, pool, frags, memo)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
