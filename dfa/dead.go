package dfa

import "github.com/MichaelPaddon/epsilon/charset"

// collapseDead partitions raw states into those that can still reach
// an accepting state (live) and those that cannot (dead), merges every
// dead state into a single sink, and remaps transitions accordingly.
// Liveness is computed by a breadth-first walk of the reverse
// transition graph seeded from the accepting states.
func collapseDead(raw []rawState, start int, tokenNames []string) (*DFA, error) {
	n := len(raw)
	live := make([]bool, n)
	queue := make([]int, 0, n)
	for i, s := range raw {
		if s.accepting {
			live[i] = true
			queue = append(queue, i)
		}
	}

	rev := make([][]int, n)
	for i, s := range raw {
		for _, tr := range s.transitions {
			rev[tr.target] = append(rev[tr.target], i)
		}
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range rev[u] {
			if !live[v] {
				live[v] = true
				queue = append(queue, v)
			}
		}
	}

	newID := make([]StateID, n)
	liveCount := StateID(0)
	for i, ok := range live {
		if ok {
			newID[i] = liveCount
			liveCount++
		}
	}

	anyDead := liveCount < StateID(n)
	deadID := StateID(-1)
	totalStates := liveCount
	if anyDead {
		deadID = liveCount
		totalStates++
	}

	states := make([]State, totalStates)
	for i, s := range raw {
		if !live[i] {
			continue
		}
		st := State{Token: s.token, Accepting: s.accepting}
		for _, tr := range s.transitions {
			target := deadID
			if live[tr.target] {
				target = newID[tr.target]
			}
			st.Transitions = append(st.Transitions, Transition{Set: tr.set, Target: target})
		}
		states[newID[i]] = st
	}
	if anyDead {
		states[deadID] = State{
			Transitions: []Transition{{Set: charset.Full(), Target: deadID}},
		}
	}

	startID := deadID
	if live[start] {
		startID = newID[start]
	}

	return &DFA{
		States:     states,
		Start:      startID,
		Dead:       deadID,
		TokenNames: tokenNames,
	}, nil
}
