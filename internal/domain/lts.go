package domain

import "sort"

// State names a node of a labeled transition system. Equality is by value;
// states carry no attributes beyond identity.
type State string

// Action names an observable transition label. Treated as an atomic token.
type Action string

// Transition is an ordered (source, action, target) triple.
type Transition struct {
	Source State  `json:"source"`
	Action Action `json:"action"`
	Target State  `json:"target"`
}

// Arc is the (action, target) tail of a transition, stored per source state.
type Arc struct {
	Action Action `json:"action"`
	Target State  `json:"target"`
}

// LTS is a finite labeled transition system under incremental construction.
// States and Actions grow monotonically with each inserted transition and are
// never allowed to fall out of sync with the arc lists. The relation is not
// required to be deterministic or total; a state with no outgoing arcs is a
// valid deadlock state.
type LTS struct {
	states   map[State]struct{}
	actions  map[Action]struct{}
	outgoing map[State][]Arc
}

func NewLTS() *LTS {
	return &LTS{
		states:   make(map[State]struct{}),
		actions:  make(map[Action]struct{}),
		outgoing: make(map[State][]Arc),
	}
}

// AddState declares a state without any transitions. Needed for systems whose
// initial state never appears in a transition (a single-state, transition-free
// system is legal).
func (l *LTS) AddState(s State) {
	l.states[s] = struct{}{}
}

// AddTransition inserts the triple, growing States and Actions as needed.
// Exact duplicates append a duplicate arc; callers must not rely on dedup.
func (l *LTS) AddTransition(src State, act Action, tgt State) {
	l.states[src] = struct{}{}
	l.states[tgt] = struct{}{}
	l.actions[act] = struct{}{}
	l.outgoing[src] = append(l.outgoing[src], Arc{Action: act, Target: tgt})
}

// TransitionsFrom returns the outgoing arcs of s in insertion order. The empty
// slice denotes a deadlock state.
func (l *LTS) TransitionsFrom(s State) []Arc {
	return l.outgoing[s]
}

// HasState reports whether s is a member of the state set.
func (l *LTS) HasState(s State) bool {
	_, ok := l.states[s]
	return ok
}

func (l *LTS) NumStates() int { return len(l.states) }

func (l *LTS) NumActions() int { return len(l.actions) }

func (l *LTS) NumTransitions() int {
	n := 0
	for _, arcs := range l.outgoing {
		n += len(arcs)
	}
	return n
}

// States returns the state set in sorted order.
func (l *LTS) States() []State {
	out := make([]State, 0, len(l.states))
	for s := range l.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actions returns the alphabet in sorted order. Refinement iterates this for
// a reproducible split order across runs.
func (l *LTS) Actions() []Action {
	out := make([]Action, 0, len(l.actions))
	for a := range l.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transitions returns the full relation flattened to triples, sources in
// sorted order and arcs in insertion order. Used for storage and display.
func (l *LTS) Transitions() []Transition {
	out := make([]Transition, 0, l.NumTransitions())
	for _, src := range l.States() {
		for _, arc := range l.outgoing[src] {
			out = append(out, Transition{Source: src, Action: arc.Action, Target: arc.Target})
		}
	}
	return out
}

// SameAlphabet reports unordered action-set equality with other. Two systems
// with different alphabets are never bisimilar under this design, even if the
// extra actions only label unreachable states.
func (l *LTS) SameAlphabet(other *LTS) bool {
	if len(l.actions) != len(other.actions) {
		return false
	}
	for a := range l.actions {
		if _, ok := other.actions[a]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing no structure with the receiver.
func (l *LTS) Clone() *LTS {
	c := NewLTS()
	for s := range l.states {
		c.states[s] = struct{}{}
	}
	for a := range l.actions {
		c.actions[a] = struct{}{}
	}
	for s, arcs := range l.outgoing {
		c.outgoing[s] = append([]Arc(nil), arcs...)
	}
	return c
}

// Relabel rewrites every state through a fresh namespaced identifier
// (tag + "/" + old) and returns the old-to-new mapping. The mapping is a
// bijection and the relabeled system has identical shape under renaming.
// Apply at most once per instance before merging; repeated relabeling stacks
// namespaces, which is harmless but wasteful.
func (l *LTS) Relabel(tag string) map[State]State {
	mapping := make(map[State]State, len(l.states))
	for s := range l.states {
		mapping[s] = State(tag + "/" + string(s))
	}

	states := make(map[State]struct{}, len(l.states))
	outgoing := make(map[State][]Arc, len(l.outgoing))
	for s := range l.states {
		states[mapping[s]] = struct{}{}
	}
	for s, arcs := range l.outgoing {
		renamed := make([]Arc, len(arcs))
		for i, arc := range arcs {
			renamed[i] = Arc{Action: arc.Action, Target: mapping[arc.Target]}
		}
		outgoing[mapping[s]] = renamed
	}

	l.states = states
	l.outgoing = outgoing
	return mapping
}

// Merge adds every state and transition of other into l. The caller is
// responsible for making the two state sets disjoint first (via Relabel);
// duplicate triples are harmless to refinement.
func (l *LTS) Merge(other *LTS) {
	for s := range other.states {
		l.states[s] = struct{}{}
	}
	for a := range other.actions {
		l.actions[a] = struct{}{}
	}
	for s, arcs := range other.outgoing {
		l.outgoing[s] = append(l.outgoing[s], arcs...)
	}
}
