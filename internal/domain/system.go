package domain

import (
	"time"

	"github.com/google/uuid"
)

// System is a stored labeled transition system: the structured output of the
// loader, persisted so checks can reference it by id.
type System struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Initial     State        `json:"initial_state"`
	Transitions []Transition `json:"transitions"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Build replays the stored transitions into a fresh LTS. The initial state is
// declared explicitly so a transition-free system still has a state set.
func (s *System) Build() *LTS {
	l := NewLTS()
	if s.Initial != "" {
		l.AddState(s.Initial)
	}
	for _, t := range s.Transitions {
		l.AddTransition(t.Source, t.Action, t.Target)
	}
	return l
}

// CheckRun records one bisimilarity check between two stored systems.
type CheckRun struct {
	ID         uuid.UUID `json:"id"`
	LeftID     uuid.UUID `json:"left_id"`
	RightID    uuid.UUID `json:"right_id"`
	Bisimilar  bool      `json:"bisimilar"`
	BlockCount int       `json:"block_count"`
	StateCount int       `json:"state_count"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
