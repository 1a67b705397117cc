// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"sync"
	"time"
)

// A Pool is a thread-safe free list of reusable Request objects.
// Producing from a pool either recycles an idle request or allocates a
// new one; when the last Handle and every internal reference to a
// request are gone, the request is reset and returns to the free list.
//
// A Pool's zero value is ready to use. An event loop creates its own
// pool, reachable via Loop.Pool.
type Pool struct {
	mu   sync.Mutex
	idle []*Request
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Reserve pre-allocates count idle requests so the first count
// Produce calls do not allocate.
func (p *Pool) Reserve(count int) {
	requests := make([]*Request, count)
	for i := range requests {
		requests[i] = newRequest()
	}
	p.mu.Lock()
	p.idle = append(p.idle, requests...)
	p.mu.Unlock()
}

// Produce returns a Handle to a request set up for the URL and
// transport timeout. A zero timeout means no transport timeout. The
// handle must be submitted to an event loop, performed synchronously,
// or Released.
func (p *Pool) Produce(url string, transportTimeout time.Duration) *Handle {
	return p.ProduceAsync(url, nil, transportTimeout, 0)
}

// ProduceAsync returns a Handle to a request set up for an
// asynchronous submission: URL, completion callback, transport
// timeout, and optional response wait. A zero responseWait disables
// the response-wait deadline.
func (p *Pool) ProduceAsync(url string, onComplete func(*Handle), transportTimeout, responseWait time.Duration) *Handle {
	state := p.get()
	state.url = url
	state.onComplete = onComplete
	state.transportTimeout = transportTimeout
	state.responseWait = responseWait
	return &Handle{shared: newSharedRequest(p, state)}
}

// get pops an idle request or allocates a new one. Idle requests were
// reset on their way into the free list, so either way the caller
// receives a request in its default state.
func (p *Pool) get() *Request {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		state := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return state
	}
	p.mu.Unlock()
	return newRequest()
}

// put resets a request and pushes it onto the free list. Called from
// sharedRequest when the last reference is released.
func (p *Pool) put(state *Request) {
	state.Reset()
	p.mu.Lock()
	p.idle = append(p.idle, state)
	p.mu.Unlock()
}
