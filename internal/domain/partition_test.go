package domain

import (
	"reflect"
	"testing"
)

func TestBlockOf(t *testing.T) {
	p := Partition{
		NewBlock("a", "b"),
		NewBlock("c"),
	}

	tests := []struct {
		state State
		want  int
	}{
		{"a", 0},
		{"b", 0},
		{"c", 1},
		{"d", -1},
	}

	for _, tt := range tests {
		if got := p.BlockOf(tt.state); got != tt.want {
			t.Errorf("BlockOf(%q) = %d, want %d", tt.state, got, tt.want)
		}
	}
}

func TestSameBlock(t *testing.T) {
	p := Partition{
		NewBlock("a", "b"),
		NewBlock("c"),
	}

	if !p.SameBlock("a", "b") {
		t.Error("SameBlock(a, b) = false, want true")
	}
	if p.SameBlock("a", "c") {
		t.Error("SameBlock(a, c) = true, want false")
	}
	if p.SameBlock("a", "missing") {
		t.Error("SameBlock with absent state = true, want false")
	}
	if p.SameBlock("missing", "missing") {
		t.Error("SameBlock of two absent states = true, want false")
	}
}

func TestBlockSorted(t *testing.T) {
	b := NewBlock("c", "a", "b")
	want := []State{"a", "b", "c"}
	if got := b.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted = %v, want %v", got, want)
	}
}
