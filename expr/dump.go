package expr

import "github.com/alecthomas/repr"

// snapshot is a tree-shaped, acyclic copy of an Expr suitable for
// pretty-printing with repr; Expr itself is a DAG handle into a Pool
// and not meaningful to repr.String directly.
type snapshot struct {
	Kind     string
	Chars    string     `repr:",omitempty"`
	Tag      TokenID    `repr:",omitempty"`
	Children []snapshot `repr:",omitempty"`
}

func toSnapshot(e Expr) snapshot {
	s := snapshot{Kind: e.Kind().String()}
	if cs, ok := e.CharSet(); ok {
		s.Chars = cs.String()
	}
	if t, ok := e.Tag(); ok {
		s.Tag = t
	}
	for _, o := range e.Operands() {
		s.Children = append(s.Children, toSnapshot(o))
	}
	return s
}

// Dump renders e as a human-readable tree, for use in tests and
// diagnostics. Shared subexpressions are expanded at every occurrence,
// since repr has no notion of the interner's sharing.
func Dump(e Expr) string {
	return repr.String(toSnapshot(e), repr.Indent("  "))
}
