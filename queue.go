package main

import (
	"container/heap"
)

// candidate is a queued removal: a node and the cost computed for it
type candidate struct {
	Node    NodeID
	Cost    float64
	Seq     int // insertion order, breaks cost ties
	Version int // node version the cost was computed at
}

// RemovalQueue hands out removal candidates cheapest first, ties in
// insertion order. Stale entries are not removed when a node changes; the
// driver drops them when they come out.
type RemovalQueue struct {
	items []candidate
	seq   int
}

func newRemovalQueue(capacity int) *RemovalQueue {
	return &RemovalQueue{items: make([]candidate, 0, capacity)}
}

// add queues node at cost, tagged with the node version it was computed at
func (q *RemovalQueue) add(node NodeID, cost float64, version int) {
	heap.Push(q, candidate{Node: node, Cost: cost, Seq: q.seq, Version: version})
	q.seq++
}

// next pops the cheapest entry
func (q *RemovalQueue) next() (candidate, bool) {
	if len(q.items) == 0 {
		return candidate{}, false
	}
	return heap.Pop(q).(candidate), true
}

// Len returns the number of queued entries, stale ones included
func (q *RemovalQueue) Len() int { return len(q.items) }

func (q *RemovalQueue) Less(i, j int) bool {
	a, b := &q.items[i], &q.items[j]
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	return a.Seq < b.Seq
}

func (q *RemovalQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

// Push and Pop are for container/heap only; use add and next.
func (q *RemovalQueue) Push(x any) { q.items = append(q.items, x.(candidate)) }

func (q *RemovalQueue) Pop() any {
	last := len(q.items) - 1
	c := q.items[last]
	q.items = q.items[:last]
	return c
}
