package service

import (
	"testing"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
)

func buildLTS(t *testing.T, triples ...[3]string) *domain.LTS {
	t.Helper()
	l := domain.NewLTS()
	for _, tr := range triples {
		l.AddTransition(domain.State(tr[0]), domain.Action(tr[1]), domain.State(tr[2]))
	}
	return l
}

// checkPartitionCovers verifies the fundamental partition invariant: blocks
// are non-empty, disjoint, and their union is exactly the state set.
func checkPartitionCovers(t *testing.T, l *domain.LTS, p domain.Partition) {
	t.Helper()
	seen := make(map[domain.State]int)
	for i, b := range p {
		if len(b) == 0 {
			t.Errorf("block %d is empty", i)
		}
		for s := range b {
			if prev, dup := seen[s]; dup {
				t.Errorf("state %q in blocks %d and %d", s, prev, i)
			}
			seen[s] = i
			if !l.HasState(s) {
				t.Errorf("block %d contains %q, not a state of the LTS", i, s)
			}
		}
	}
	if len(seen) != l.NumStates() {
		t.Errorf("partition covers %d states, LTS has %d", len(seen), l.NumStates())
	}
}

func TestRefineEmptyLTS(t *testing.T) {
	p := Refine(domain.NewLTS())
	if len(p) != 0 {
		t.Errorf("Refine(empty) = %d blocks, want 0", len(p))
	}
}

func TestRefineSingleState(t *testing.T) {
	l := domain.NewLTS()
	l.AddState("s")

	p := Refine(l)
	if len(p) != 1 {
		t.Fatalf("got %d blocks, want 1", len(p))
	}
	if !p[0].Has("s") {
		t.Error("block does not contain the lone state")
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineAllStatesEquivalent(t *testing.T) {
	// A two-state cycle on one action: both states have the same behavior,
	// so the trivial partition is already the fixed point.
	l := buildLTS(t,
		[3]string{"s0", "a", "s1"},
		[3]string{"s1", "a", "s0"},
	)

	p := Refine(l)
	if len(p) != 1 {
		t.Errorf("got %d blocks, want 1", len(p))
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineSeparatesDeadlockFromLive(t *testing.T) {
	// s can do "a", s1 cannot: states with no a-labeled arcs must form a
	// group distinct from states that have them.
	l := buildLTS(t, [3]string{"s", "a", "s1"})

	p := Refine(l)
	if len(p) != 2 {
		t.Fatalf("got %d blocks, want 2", len(p))
	}
	if p.SameBlock("s", "s1") {
		t.Error("deadlock state grouped with live state")
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineChain(t *testing.T) {
	// A 3-step chain: every state has a distinct distance to deadlock, so
	// refinement must fully separate them over multiple passes.
	l := buildLTS(t,
		[3]string{"s0", "a", "s1"},
		[3]string{"s1", "a", "s2"},
		[3]string{"s2", "a", "s3"},
	)

	p := Refine(l)
	if len(p) != 4 {
		t.Errorf("got %d blocks, want 4", len(p))
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineBranchingEquivalence(t *testing.T) {
	// Both s1 and s2 deadlock; they stay together while s is split off.
	l := buildLTS(t,
		[3]string{"s", "a", "s1"},
		[3]string{"s", "a", "s2"},
	)

	p := Refine(l)
	if len(p) != 2 {
		t.Fatalf("got %d blocks, want 2", len(p))
	}
	if !p.SameBlock("s1", "s2") {
		t.Error("the two deadlock successors should share a block")
	}
	if p.SameBlock("s", "s1") {
		t.Error("branching state grouped with deadlock state")
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineActionDistinguishes(t *testing.T) {
	// Same out-degree, different labels: t1 and t2 are not equivalent.
	l := buildLTS(t,
		[3]string{"t1", "a", "u"},
		[3]string{"t2", "b", "u"},
	)

	p := Refine(l)
	if p.SameBlock("t1", "t2") {
		t.Error("states with different action capabilities share a block")
	}
	checkPartitionCovers(t, l, p)
}

func TestRefineFixedPointIsStable(t *testing.T) {
	tests := []struct {
		name    string
		triples [][3]string
	}{
		{
			name:    "chain",
			triples: [][3]string{{"s0", "a", "s1"}, {"s1", "a", "s2"}},
		},
		{
			name: "branching with loops",
			triples: [][3]string{
				{"s", "a", "s1"}, {"s", "a", "s2"},
				{"s1", "b", "s2"}, {"s2", "b", "s2"},
			},
		},
		{
			name: "two components",
			triples: [][3]string{
				{"s", "a", "s1"},
				{"t", "a", "t1"}, {"t1", "b", "t"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := domain.NewLTS()
			for _, tr := range tt.triples {
				l.AddTransition(domain.State(tr[0]), domain.Action(tr[1]), domain.State(tr[2]))
			}

			p := Refine(l)
			checkPartitionCovers(t, l, p)
			if !Stable(l, p) {
				t.Error("fixed-point partition is not stable")
			}
		})
	}
}

func TestRefinePassesAreMonotonic(t *testing.T) {
	// Across every pass to the fixed point: no block ever grows, the block
	// count never drops, and the partition invariant holds at each boundary.
	l := buildLTS(t,
		[3]string{"s", "a", "s1"},
		[3]string{"s", "a", "s2"},
		[3]string{"s1", "b", "s3"},
		[3]string{"s2", "c", "s3"},
		[3]string{"s3", "a", "s3"},
		[3]string{"s4", "b", "s"},
	)

	maxBlockSize := func(p domain.Partition) int {
		max := 0
		for _, b := range p {
			if len(b) > max {
				max = len(b)
			}
		}
		return max
	}

	partition := domain.Partition{domain.NewBlock(l.States()...)}
	actions := l.Actions()
	passes := 0
	for {
		next, changed := refinePass(l, partition, actions)
		checkPartitionCovers(t, l, next)
		if len(next) < len(partition) {
			t.Fatalf("pass %d lowered block count: %d -> %d", passes, len(partition), len(next))
		}
		if maxBlockSize(next) > maxBlockSize(partition) {
			t.Fatalf("pass %d grew a block: %d -> %d", passes, maxBlockSize(partition), maxBlockSize(next))
		}
		partition = next
		passes++
		if !changed {
			break
		}
		if passes > l.NumStates() {
			t.Fatal("refinement did not reach a fixed point within |states| passes")
		}
	}
	if !Stable(l, partition) {
		t.Error("final partition is not stable")
	}
}

func TestRefineDeterministic(t *testing.T) {
	build := func() *domain.LTS {
		return buildLTS(t,
			[3]string{"s", "a", "s1"},
			[3]string{"s", "b", "s2"},
			[3]string{"s1", "a", "s2"},
			[3]string{"s2", "b", "s2"},
		)
	}

	first := Refine(build())
	for i := 0; i < 10; i++ {
		p := Refine(build())
		if len(p) != len(first) {
			t.Fatalf("run %d: %d blocks, first run had %d", i, len(p), len(first))
		}
		for j := range p {
			want := first[j].Sorted()
			got := p[j].Sorted()
			if len(want) != len(got) {
				t.Fatalf("run %d: block %d size differs", i, j)
			}
			for k := range want {
				if want[k] != got[k] {
					t.Fatalf("run %d: block %d differs: %v vs %v", i, j, got, want)
				}
			}
		}
	}
}
