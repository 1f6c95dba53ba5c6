// Package lexspec resolves a named-token, fragment-interpolating
// lexical specification into the combined root expression the DFA
// builder consumes. It is the boundary between the external regex
// surface-syntax parser (out of scope here; it only has to produce a
// Node tree) and the hash-consed algebra in package expr.
package lexspec

import "github.com/MichaelPaddon/epsilon/charset"

// Node is the surface tree handed to lexspec by the (external) regex
// parser: the same algebra as package expr, plus Ref, which stands for
// an as-yet-unresolved interpolation of a fragment by name.
type Node interface {
	isNode()
}

// Ref names an interpolation target: another fragment, written
// <_name> in the surface grammar.
type Ref struct {
	Name string
}

// Chars matches a single code point drawn from Set.
type Chars struct {
	Set charset.Set
}

// Concat matches Left followed by Right.
type Concat struct {
	Left, Right Node
}

// Alt matches any of Terms.
type Alt struct {
	Terms []Node
}

// And matches the intersection of Terms.
type And struct {
	Terms []Node
}

// Not matches the complement of Term.
type Not struct {
	Term Node
}

// Star matches zero or more repetitions of Term.
type Star struct {
	Term Node
}

// Epsilon matches only the empty string.
type Epsilon struct{}

// Empty matches no string. It has no surface syntax of its own but is
// useful as a building block for derived forms (e.g. an empty
// character class produced by a negated full range).
type Empty struct{}

func (Ref) isNode()     {}
func (Chars) isNode()   {}
func (Concat) isNode()  {}
func (Alt) isNode()     {}
func (And) isNode()     {}
func (Not) isNode()     {}
func (Star) isNode()    {}
func (Epsilon) isNode() {}
func (Empty) isNode()   {}
