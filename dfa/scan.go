package dfa

import "fmt"

// UnmatchedInputError reports that no token prefix could be matched
// starting at Pos: running the automaton from the start state reached
// the dead state or the end of input without passing through an
// accepting state after at least one code point.
type UnmatchedInputError struct {
	Pos  int
	Rune rune
}

func (e *UnmatchedInputError) Error() string {
	return fmt.Sprintf("dfa: no token matches input at offset %d (%q)", e.Pos, e.Rune)
}

// Token is one lexeme recognized by Scan: the half-open [Start, End)
// byte-free code point range of input it covers, and the id of the
// token whose pattern matched.
type Token struct {
	Name       string
	TokenID    int32
	Start, End int
}

// Scan tokenizes input in full, using maximal munch: at each position
// it runs the automaton as far as it can, remembering the longest
// prefix seen so far that ended on an accepting state, and emits that
// prefix as one token before restarting from the position just after
// it. Ties between tokens with the same longest length are broken by
// TokenID, the token's declaration order, which lexspec.Resolve
// assigns in the Tag it wraps each token's expression in.
//
// An accept at the start state itself (zero code points consumed)
// never counts: a token whose language contains ε can make the start
// state nullable even though no strictly longer match exists, e.g.
// neg = !([0-9]+) on input "12", where the start state accepts the
// empty prefix but "1" and "12" are both in [0-9]+ and so excluded
// from L(neg). Accepting a zero-length match would leave pos unchanged
// and loop forever; UnmatchedInputError is also the correct result
// here, since no non-empty prefix of the input was in any token's
// language.
func Scan(a Automaton, input []rune) ([]Token, error) {
	var tokens []Token
	names := a.Names()
	dead := a.DeadState()
	pos := 0
	for pos < len(input) {
		state := a.StartState()
		bestEnd := -1
		var bestTok int32

		i := pos
		for {
			if i > pos {
				if tok, ok := a.Accepting(state); ok {
					bestEnd = i
					bestTok = int32(tok)
				}
			}
			if i >= len(input) || state == dead {
				break
			}
			state = a.Step(state, input[i])
			i++
		}

		if bestEnd < 0 {
			return tokens, &UnmatchedInputError{Pos: pos, Rune: input[pos]}
		}
		tokens = append(tokens, Token{
			Name:    names[bestTok],
			TokenID: bestTok,
			Start:   pos,
			End:     bestEnd,
		})
		pos = bestEnd
	}
	return tokens, nil
}
