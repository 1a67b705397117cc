// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"container/heap"
	"time"
)

// A waitEntry is one request's slot in the response-wait index. The
// entry pointer doubles as the removal token stored on the request.
type waitEntry struct {
	deadline time.Time
	seq      uint64
	shared   *sharedRequest

	// heap position, maintained by waitHeap. -1 once removed.
	index int
}

// A waitIndex is the time-ordered index of in-flight requests with an
// active response-wait deadline: a min-heap keyed by deadline, with an
// insertion counter as tiebreak so entries sharing a deadline expire
// in FIFO order.
//
// The index holds one reference per entry; remove and popExpired hand
// that reference back to the caller. Only the event loop goroutine
// touches the index.
type waitIndex struct {
	entries waitHeap
	seq     uint64
}

// insert adds an entry for shared expiring at deadline and returns its
// removal token. The caller transfers one reference into the index.
func (w *waitIndex) insert(deadline time.Time, shared *sharedRequest) *waitEntry {
	w.seq++
	e := &waitEntry{deadline: deadline, seq: w.seq, shared: shared}
	heap.Push(&w.entries, e)
	return e
}

// remove takes the entry out of the index and returns its reference to
// the caller.
func (w *waitIndex) remove(e *waitEntry) *sharedRequest {
	heap.Remove(&w.entries, e.index)
	return e.shared
}

// min returns the earliest deadline in the index.
func (w *waitIndex) min() (time.Time, bool) {
	if len(w.entries) == 0 {
		return time.Time{}, false
	}
	return w.entries[0].deadline, true
}

// popExpired removes and returns every entry whose deadline is at or
// before now, in deadline order with FIFO tiebreak.
func (w *waitIndex) popExpired(now time.Time) []*waitEntry {
	var expired []*waitEntry
	for len(w.entries) > 0 && !w.entries[0].deadline.After(now) {
		expired = append(expired, heap.Pop(&w.entries).(*waitEntry))
	}
	return expired
}

func (w *waitIndex) len() int {
	return len(w.entries)
}

type waitHeap []*waitEntry

func (h waitHeap) Len() int { return len(h) }

func (h waitHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h waitHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *waitHeap) Push(x interface{}) {
	e := x.(*waitEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *waitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
