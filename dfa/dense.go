package dfa

import (
	"github.com/MichaelPaddon/epsilon/charset"
	"github.com/MichaelPaddon/epsilon/compact"
	"github.com/MichaelPaddon/epsilon/expr"
)

// GlobalAlphabet computes the coarsest partition of Σ consistent with
// every state's own transition partition: the common refinement of
// every State's transition classes. It exists so the whole automaton
// can be laid out as one dense state x class matrix, rather than one
// differently-partitioned row per state, which package compact needs
// in order to shrink it.
func GlobalAlphabet(d *DFA) []charset.Set {
	classes := []charset.Set{charset.Full()}
	for _, s := range d.States {
		var local []charset.Set
		for _, tr := range s.Transitions {
			local = append(local, tr.Set)
		}
		classes = refineAll(classes, local)
	}
	return classes
}

func refineAll(a, b []charset.Set) []charset.Set {
	var out []charset.Set
	for _, x := range a {
		for _, y := range b {
			z := x.Intersect(y)
			if !z.IsEmpty() {
				out = append(out, z)
			}
		}
	}
	return out
}

func classIndex(classes []charset.Set, c rune) int {
	for i, cl := range classes {
		if cl.Contains(c) {
			return i
		}
	}
	return -1
}

// DenseMatrix lays d out as a row-major state x class matrix over its
// global alphabet: entries[state*len(classes)+class] is the target
// state reached from state on any code point of that class.
func DenseMatrix(d *DFA) (*compact.Matrix, []charset.Set) {
	classes := GlobalAlphabet(d)
	entries := make([]int32, len(d.States)*len(classes))
	for s := range d.States {
		for ci, cl := range classes {
			target := d.Step(StateID(s), cl.Representative())
			entries[s*len(classes)+ci] = int32(target)
		}
	}
	m, err := compact.NewMatrix(entries, len(classes))
	if err != nil {
		// entries is always RowCount*len(classes) long and len(classes) > 0
		// (GlobalAlphabet always starts from Full()), so this cannot fail.
		panic(err)
	}
	return m, classes
}

// CompactDFA is an automaton produced by Build with its transition
// table compacted by a compact.Table, for deployment once a specification is fixed
// and the per-state range-list representation no longer matters.
type CompactDFA struct {
	table      compact.Table
	classes    []charset.Set
	states     []State
	start      StateID
	dead       StateID
	tokenNames []string
}

// Compact builds the dense global-alphabet matrix for d and hands it
// to table to compress.
func Compact(d *DFA, table compact.Table) (*CompactDFA, error) {
	m, classes := DenseMatrix(d)
	if err := table.Compact(m); err != nil {
		return nil, err
	}
	return &CompactDFA{
		table:      table,
		classes:    classes,
		states:     d.States,
		start:      d.Start,
		dead:       d.Dead,
		tokenNames: d.TokenNames,
	}, nil
}

func (c *CompactDFA) Step(s StateID, ch rune) StateID {
	ci := classIndex(c.classes, ch)
	if ci < 0 {
		return c.dead
	}
	target, err := c.table.Lookup(int(s), ci)
	if err != nil {
		return c.dead
	}
	return StateID(target)
}

func (c *CompactDFA) Accepting(s StateID) (expr.TokenID, bool) {
	st := &c.states[s]
	return st.Token, st.Accepting
}

func (c *CompactDFA) StartState() StateID { return c.start }
func (c *CompactDFA) DeadState() StateID  { return c.dead }
func (c *CompactDFA) Names() []string     { return c.tokenNames }
