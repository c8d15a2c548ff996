package domain

import "sort"

// Block is one group of states within a partition.
type Block map[State]struct{}

func NewBlock(states ...State) Block {
	b := make(Block, len(states))
	for _, s := range states {
		b[s] = struct{}{}
	}
	return b
}

func (b Block) Has(s State) bool {
	_, ok := b[s]
	return ok
}

// Sorted returns the block's states in sorted order, for deterministic
// iteration and display.
func (b Block) Sorted() []State {
	out := make([]State, 0, len(b))
	for s := range b {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Partition is an ordered collection of disjoint, non-empty blocks. At every
// refinement pass boundary the union of blocks equals exactly the state set of
// the LTS being refined.
type Partition []Block

// BlockOf returns the index of the block containing s, or -1 if no block does.
func (p Partition) BlockOf(s State) int {
	for i, b := range p {
		if b.Has(s) {
			return i
		}
	}
	return -1
}

// SameBlock reports whether a and b belong to one block of the partition.
// States outside the partition are never in the same block.
func (p Partition) SameBlock(a, b State) bool {
	i := p.BlockOf(a)
	return i >= 0 && i == p.BlockOf(b)
}

// NumStates returns the total number of states across all blocks.
func (p Partition) NumStates() int {
	n := 0
	for _, b := range p {
		n += len(b)
	}
	return n
}
