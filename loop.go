// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/spotx/liblifthttp/status"
)

// A Loop is the asynchronous event loop: it owns a request pool, a
// transfer engine, and a single reactor goroutine that multiplexes
// every in-flight transfer, both per-request deadline clocks, and the
// completion callbacks.
//
// Create a Loop with NewLoop, produce requests from its Pool, and
// submit them with StartRequest. Completion callbacks run on the
// reactor goroutine; they may submit new requests to the same loop.
//
// A Loop is safe for concurrent submission from any number of
// goroutines. Requests submitted from a single goroutine begin their
// transfers in submission order.
type Loop struct {
	pool   *Pool
	engine *engine

	// Reactor-goroutine-only state.
	waits     waitIndex
	waitTimer *time.Timer

	// Submission queue. The mutex is never held across a transport
	// call or a callback; the reactor takes the whole queue in one
	// swap.
	mu      sync.Mutex
	pending []*sharedRequest

	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	started chan struct{}

	stopping int32
	inflight int64
}

// NewLoop creates an event loop and spawns its reactor goroutine. It
// returns once the reactor is running, so requests may be submitted
// immediately.
func NewLoop() *Loop {
	l := &Loop{
		pool:    NewPool(),
		engine:  newEngine(),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		started: make(chan struct{}),
	}
	go l.run()
	<-l.started
	return l
}

// Pool returns the loop's request pool.
func (l *Loop) Pool() *Pool {
	return l.pool
}

// StartRequest submits a request for asynchronous execution. It
// returns false, leaving the caller's handle untouched, if the loop is
// stopping. On true, ownership of the handle's reference passes to the
// loop: the handle must not be used again, and the request reappears
// in the completion callback.
//
// StartRequest never blocks on I/O: it pushes onto the submission
// queue and wakes the reactor.
func (l *Loop) StartRequest(h *Handle) bool {
	if atomic.LoadInt32(&l.stopping) != 0 {
		return false
	}
	s := h.detach()
	if s == nil {
		return false
	}
	// Prepare here, off the reactor goroutine, so the reactor never
	// spends its time committing headers.
	s.state.prepare()
	l.mu.Lock()
	l.pending = append(l.pending, s)
	l.mu.Unlock()
	l.wakeReactor()
	return true
}

// HasUnfinishedRequests reports whether any submitted request has not
// yet completed: the in-flight count is positive or the submission
// queue is non-empty. A request whose response-wait deadline fired
// counts as unfinished until its underlying transfer settles.
func (l *Loop) HasUnfinishedRequests() bool {
	if atomic.LoadInt64(&l.inflight) > 0 {
		return true
	}
	l.mu.Lock()
	n := len(l.pending)
	l.mu.Unlock()
	return n > 0
}

// Stop makes the loop refuse new submissions. In-flight requests run
// to completion.
func (l *Loop) Stop() {
	atomic.StoreInt32(&l.stopping, 1)
}

// Close stops the loop, waits until every submitted request has
// completed, then tears down the reactor and joins its goroutine. No
// StartRequest call may race with Close.
func (l *Loop) Close() {
	l.Stop()
	for l.HasUnfinishedRequests() {
		time.Sleep(time.Millisecond)
	}
	close(l.quit)
	<-l.done
}

func (l *Loop) wakeReactor() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// run is the reactor: a single goroutine that owns every transfer
// attach/detach, the response-wait index and its timer, and every
// completion callback.
func (l *Loop) run() {
	l.waitTimer = time.NewTimer(time.Hour)
	if !l.waitTimer.Stop() {
		<-l.waitTimer.C
	}
	close(l.started)
	defer close(l.done)
	for {
		select {
		case <-l.wake:
			l.accept()
		case t := <-l.engine.completions:
			l.drain(t)
		case <-l.waitTimer.C:
			l.expireWaits()
		case <-l.quit:
			l.waitTimer.Stop()
			return
		}
	}
}

// accept drains the submission queue and attaches each request to the
// engine. The queue is swapped out under the mutex and worked on
// lock-free so no transport call ever runs under the submission lock.
func (l *Loop) accept() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	// The whole batch counts as in-flight before any attach so the
	// unfinished count never dips while a batch is mid-accept.
	atomic.AddInt64(&l.inflight, int64(len(batch)))
	now := time.Now()
	for _, s := range batch {
		if err := l.engine.attach(s); err != nil {
			l.failToStart(s)
			continue
		}
		st := s.state
		if st.responseWait > 0 {
			st.waitToken = l.waits.insert(now.Add(st.responseWait), s.acquire())
			l.armWaitTimer()
		}
	}
}

// failToStart completes a request the engine rejected at attach time.
// The submission reference is released here since no transfer owns it.
func (l *Loop) failToStart(s *sharedRequest) {
	st := s.state
	st.completionStatus = status.FailedToStart
	st.totalTime, st.hasTotal = 0, true
	l.invokeCallback(s)
	s.release()
	atomic.AddInt64(&l.inflight, -1)
}

// drain handles one completed transfer: classify (unless a
// response-wait timeout already classified it), install the response,
// detach, drop the wait-index entry, fire the callback, and release
// the engine's reference.
func (l *Loop) drain(t *transfer) {
	s := t.shared
	st := s.state
	if st.completionStatus != status.ResponseWaitTimeout {
		installResult(st, &t.res)
		st.totalTime, st.hasTotal = t.res.elapsed, true
	}
	l.engine.detach(st)
	if st.waitToken != nil {
		l.waits.remove(st.waitToken).release()
		st.waitToken = nil
		l.armWaitTimer()
	}
	l.invokeCallback(s)
	s.release()
	atomic.AddInt64(&l.inflight, -1)
}

// expireWaits pops every request whose response-wait deadline has
// passed, classifies it ResponseWaitTimeout, and fires its callback.
// The classification is sticky and the callback latch is now claimed,
// so the transfer's eventual completion changes nothing user-visible;
// it still runs until the transport timeout so the connection is not
// torn down.
func (l *Loop) expireWaits() {
	now := time.Now()
	for _, e := range l.waits.popExpired(now) {
		s := e.shared
		st := s.state
		st.waitToken = nil
		st.completionStatus = status.ResponseWaitTimeout
		st.totalTime, st.hasTotal = now.Sub(st.start), true
		l.invokeCallback(s)
		s.release()
	}
	l.armWaitTimer()
}

// armWaitTimer re-arms the response-wait timer to the index's earliest
// deadline, or leaves it stopped when the index is empty. Reactor
// goroutine only, so the stop-drain-reset dance is race-free.
func (l *Loop) armWaitTimer() {
	if !l.waitTimer.Stop() {
		select {
		case <-l.waitTimer.C:
		default:
		}
	}
	if deadline, ok := l.waits.min(); ok {
		l.waitTimer.Reset(time.Until(deadline))
	}
}

// invokeCallback fires the completion callback exactly once per
// transfer attempt, under a fresh Handle that keeps the state alive
// for the duration of the callback.
func (l *Loop) invokeCallback(s *sharedRequest) {
	st := s.state
	if !st.fireOnce() {
		return
	}
	if st.onComplete == nil {
		return
	}
	h := &Handle{shared: s.acquire()}
	st.onComplete(h)
	h.Release()
}
