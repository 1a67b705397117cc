// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"sync/atomic"
)

// A sharedRequest is the ownership envelope binding a Request to the
// Pool that produced it. Handles, the transfer engine, and the
// response-wait index each hold references; when the last reference is
// released the request is reset and pushed back onto the pool's free
// list.
//
// Releasing from multiple goroutines is safe; the pool push happens on
// whichever goroutine drops the count to zero.
type sharedRequest struct {
	pool  *Pool
	state *Request
	refs  int32
}

func newSharedRequest(pool *Pool, state *Request) *sharedRequest {
	return &sharedRequest{pool: pool, state: state, refs: 1}
}

func (s *sharedRequest) acquire() *sharedRequest {
	atomic.AddInt32(&s.refs, 1)
	return s
}

func (s *sharedRequest) release() {
	if atomic.AddInt32(&s.refs, -1) == 0 {
		s.pool.put(s.state)
	}
}

// A Handle is the user-facing reference to a pooled request. It is the
// only type user code holds: builder methods and read accessors are
// reached through Request().
//
// A Handle owns one reference to the underlying request. Release
// returns that reference; once every reference is gone the request is
// reset and recycled into its pool. Handles obtained from Produce must
// be either submitted with StartRequest, which takes the reference
// over, or Released.
//
// The Handle passed to a completion callback is owned by the event
// loop and is valid for the duration of the callback. Call Retain to
// keep the request alive past the callback; the retained Handle must
// be Released when done.
type Handle struct {
	shared *sharedRequest
}

// Request returns the underlying request, or nil if the handle has
// been released or submitted.
func (h *Handle) Request() *Request {
	if h.shared == nil {
		return nil
	}
	return h.shared.state
}

// Retain returns a new Handle holding its own reference to the same
// request. The new Handle must be Released when done.
func (h *Handle) Retain() *Handle {
	return &Handle{shared: h.shared.acquire()}
}

// Release returns the handle's reference. Releasing an already
// released handle is a no-op. The request, and any response body slice
// read from it, must not be used after Release.
func (h *Handle) Release() {
	s := h.shared
	if s == nil {
		return
	}
	h.shared = nil
	s.release()
}

// detach steals the handle's reference without releasing it. Used by
// StartRequest to take ownership of a submitted handle.
func (h *Handle) detach() *sharedRequest {
	s := h.shared
	h.shared = nil
	return s
}
