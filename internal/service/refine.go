package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
)

// Refine computes the coarsest stable partition of l's state set using
// Kanellakis-Smolka refinement: start from the single block holding every
// state and split blocks until, for every block B and every action a, all
// states of B reach exactly the same set of blocks via a-labeled transitions.
// The fixed point is the strong-bisimulation quotient.
//
// Actions are enumerated in sorted order and states within a block are visited
// sorted, so which action splits a block first is reproducible across runs.
// An empty state set yields the empty partition, not one trivial block.
func Refine(l *domain.LTS) domain.Partition {
	if l.NumStates() == 0 {
		return domain.Partition{}
	}

	partition := domain.Partition{domain.NewBlock(l.States()...)}
	actions := l.Actions()

	for {
		next, changed := refinePass(l, partition, actions)
		partition = next
		if !changed {
			return partition
		}
	}
}

// refinePass runs one full pass over the partition and reports whether any
// block was split. Blocks are only ever replaced by their own subgroups, so a
// pass never grows a block and never lowers the block count.
func refinePass(l *domain.LTS, partition domain.Partition, actions []domain.Action) (domain.Partition, bool) {
	changed := false
	index := blockIndex(partition)
	next := make(domain.Partition, 0, len(partition))

	for _, block := range partition {
		// A singleton cannot be split further.
		if len(block) <= 1 {
			next = append(next, block)
			continue
		}

		split := false
		for _, act := range actions {
			groups := splitBlock(l, block, act, index)
			if len(groups) > 1 {
				// The first discriminating action is enough; later
				// passes pick up any remaining refinement.
				next = append(next, groups...)
				split = true
				changed = true
				break
			}
		}
		if !split {
			next = append(next, block)
		}
	}
	return next, changed
}

// Stable reports whether running another refinement pass over p would split
// any block: for every block, action, and pair of member states, the reached
// block sets must coincide. Exposed for diagnostics and invariant checking.
func Stable(l *domain.LTS, p domain.Partition) bool {
	index := blockIndex(p)
	for _, act := range l.Actions() {
		for _, block := range p {
			var first string
			for i, s := range block.Sorted() {
				sig := signature(l, s, act, index)
				if i == 0 {
					first = sig
				} else if sig != first {
					return false
				}
			}
		}
	}
	return true
}

// blockIndex assigns each state the index of its block, giving every block a
// stable small integer id for the duration of one pass.
func blockIndex(p domain.Partition) map[domain.State]int {
	index := make(map[domain.State]int, p.NumStates())
	for i, b := range p {
		for s := range b {
			index[s] = i
		}
	}
	return index
}

// splitBlock groups the block's states by their signature under act against
// the pass-start partition. One group means the block survives intact; more
// means it is replaced by one block per group. Groups come out in order of
// first appearance over the sorted states.
func splitBlock(l *domain.LTS, block domain.Block, act domain.Action, index map[domain.State]int) []domain.Block {
	groups := make(map[string]domain.Block)
	var order []string

	for _, s := range block.Sorted() {
		sig := signature(l, s, act, index)
		g, ok := groups[sig]
		if !ok {
			g = make(domain.Block)
			groups[sig] = g
			order = append(order, sig)
		}
		g[s] = struct{}{}
	}

	out := make([]domain.Block, 0, len(order))
	for _, sig := range order {
		out = append(out, groups[sig])
	}
	return out
}

// signature encodes the set of block ids reachable from s via one act-labeled
// transition as a sorted comma-joined key. States with no act-labeled arc get
// the empty signature, which is a group of its own distinct from states that
// do have such arcs.
func signature(l *domain.LTS, s domain.State, act domain.Action, index map[domain.State]int) string {
	seen := make(map[int]struct{})
	for _, arc := range l.TransitionsFrom(s) {
		if arc.Action == act {
			seen[index[arc.Target]] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return ""
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}
