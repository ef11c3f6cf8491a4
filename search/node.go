package search

import (
	"container/heap"
	"slices"

	"github.com/katalvlaran/lvsolve/problem"
)

// node is one search-tree node. Parent pointers reconstruct the path.
type node[S any] struct {
	state  S
	parent *node[S]
	action string  // action that led here from parent
	g      float64 // accumulated cost from the root
	depth  int
}

func root[S any](s S) *node[S] {
	return &node[S]{state: s}
}

func (n *node[S]) child(s problem.Successor[S]) *node[S] {
	return &node[S]{
		state:  s.State,
		parent: n,
		action: s.Action,
		g:      n.g + s.Cost,
		depth:  n.depth + 1,
	}
}

// result walks parent pointers back to the root.
func (n *node[S]) result(expanded int) problem.Result[S] {
	path := make([]S, 0, n.depth+1)
	actions := make([]string, 0, n.depth)
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.state)
		if cur.parent != nil {
			actions = append(actions, cur.action)
		}
	}
	slices.Reverse(path)
	slices.Reverse(actions)

	return problem.Result[S]{
		Found:         true,
		Path:          path,
		Actions:       actions,
		Cost:          n.g,
		NodesExpanded: expanded,
		Reason:        problem.Solved,
	}
}

// entry is a frontier item ordered by (priority, tie, seq).
// tie is normally h: among equal priorities the node closer to the goal wins.
type entry[S any] struct {
	n        *node[S]
	priority float64
	tie      float64
	seq      int
}

// frontier is a min-heap of entries. Stale entries are left in place and
// skipped by the caller when popped (lazy decrease-key).
type frontier[S any] struct {
	items []*entry[S]
	seq   int
}

func (f *frontier[S]) Len() int { return len(f.items) }
func (f *frontier[S]) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.tie != b.tie {
		return a.tie < b.tie
	}

	return a.seq < b.seq
}
func (f *frontier[S]) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }
func (f *frontier[S]) Push(x any)    { f.items = append(f.items, x.(*entry[S])) }
func (f *frontier[S]) Pop() any {
	old := f.items
	last := len(old) - 1
	item := old[last]
	old[last] = nil
	f.items = old[:last]

	return item
}

func (f *frontier[S]) push(n *node[S], priority, tie float64) {
	heap.Push(f, &entry[S]{n: n, priority: priority, tie: tie, seq: f.seq})
	f.seq++
}

func (f *frontier[S]) pop() *node[S] {
	return heap.Pop(f).(*entry[S]).n
}
