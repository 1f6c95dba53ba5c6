// Package dfa builds a minimal, table-driven deterministic automaton
// from a root expression assembled by package lexspec, and drives it
// over input with maximal-munch tokenization.
package dfa

import (
	"github.com/MichaelPaddon/epsilon/charset"
	"github.com/MichaelPaddon/epsilon/expr"
)

// StateID names a state in a built DFA.
type StateID int32

// Transition labels one outgoing edge: Set is one class of a state's
// alphabet partition, disjoint from every other transition out of the
// same state, and Target is the state reached on any code point in Set.
type Transition struct {
	Set    charset.Set
	Target StateID
}

// State is one row of the transition table.
type State struct {
	Transitions []Transition
	Token       expr.TokenID
	Accepting   bool
}

// step returns the state reached from s on c. Every built DFA is
// total, so ok is only false if c somehow falls in none of a state's
// transitions, which would indicate a partition bug.
func (s *State) step(c rune) (StateID, bool) {
	for _, tr := range s.Transitions {
		if tr.Set.Contains(c) {
			return tr.Target, true
		}
	}
	return 0, false
}

// DFA is a minimal, total, table-driven automaton over code points,
// built from the Brzozowski derivative and accept-label structure of
// an interned expression.
type DFA struct {
	States     []State
	Start      StateID
	Dead       StateID // -1 if the automaton has no dead state
	TokenNames []string
}

// Accepting reports whether s is an accepting state, and the token it
// accepts.
func (d *DFA) Accepting(s StateID) (expr.TokenID, bool) {
	st := &d.States[s]
	return st.Token, st.Accepting
}

// Step returns the state reached from s on code point c.
func (d *DFA) Step(s StateID, c rune) StateID {
	next, ok := d.States[s].step(c)
	if !ok {
		return d.Dead
	}
	return next
}

func (d *DFA) StartState() StateID { return d.Start }
func (d *DFA) DeadState() StateID  { return d.Dead }
func (d *DFA) Names() []string     { return d.TokenNames }

// Automaton is the interface Scan drives. *DFA implements it directly
// off its range-labeled transition table; *CompactDFA implements it
// off a compacted dense table, for deployment once a specification is
// fixed and its build-time representation no longer matters.
type Automaton interface {
	Step(s StateID, c rune) StateID
	Accepting(s StateID) (expr.TokenID, bool)
	StartState() StateID
	DeadState() StateID
	Names() []string
}

var (
	_ Automaton = (*DFA)(nil)
	_ Automaton = (*CompactDFA)(nil)
)

// rawState is a state as first discovered by the worklist, before dead
// states are identified and collapsed.
type rawState struct {
	expr        expr.Expr
	transitions []rawTransition
	token       expr.TokenID
	accepting   bool
}

type rawTransition struct {
	set    charset.Set
	target int
}

// Build compiles root (the combined, Tag-wrapped expression produced
// by lexspec.Resolve) into a minimal DFA. States are discovered by a
// worklist keyed on expr.Expr identity, so structurally identical
// derivatives collapse onto one state for free, independent of the
// explicit minimization pass dead-state collapsing performs.
func Build(root expr.Expr, tokenNames []string) (*DFA, error) {
	ids := map[expr.Expr]int{}
	var raw []rawState

	getState := func(e expr.Expr) (int, error) {
		if id, ok := ids[e]; ok {
			return id, nil
		}
		id := len(raw)
		ids[e] = id
		raw = append(raw, rawState{expr: e})
		return id, nil
	}

	startID, err := getState(root)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(raw); i++ {
		e := raw[i].expr
		if tok, ok := expr.Accept(e); ok {
			raw[i].token = tok
			raw[i].accepting = true
		}
		for _, class := range e.Partition() {
			rep := class.Representative()
			d, err := e.Derivative(rep)
			if err != nil {
				return nil, err
			}
			target, err := getState(d)
			if err != nil {
				return nil, err
			}
			raw[i].transitions = append(raw[i].transitions, rawTransition{set: class, target: target})
		}
	}

	return collapseDead(raw, startID, tokenNames)
}
