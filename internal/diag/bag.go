package diag

import (
	"sort"
)

// Bag collects issues up to an optional cap. A max of zero or less means
// unlimited.
type Bag struct {
	items   []Issue
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Issue, 0, capacity),
		max:   max,
	}
}

// Add appends an issue, honouring the cap.
// Returns false when the issue was dropped because the bag is full.
func (b *Bag) Add(is Issue) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, is)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Full reports whether the next Add would be dropped.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

// Dropped is the number of issues rejected by the cap.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors reports whether at least one issue has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the collected issues. The slice aliases the bag's storage;
// do not modify it.
func (b *Bag) Items() []Issue {
	return b.items
}

// Sort orders issues by line, then code, for a deterministic output order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		ii, ij := b.items[i], b.items[j]
		if ii.Line != ij.Line {
			return ii.Line < ij.Line
		}
		return ii.Code() < ij.Code()
	})
}

// Dedup keeps the first issue per line and code.
func (b *Bag) Dedup() {
	type key struct {
		line int
		code Code
	}
	seen := make(map[key]struct{}, len(b.items))
	items := make([]Issue, 0, len(b.items))
	for _, is := range b.items {
		k := key{line: is.Line, code: is.Code()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		items = append(items, is)
	}
	b.items = items
}
