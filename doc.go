// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package lift is an asynchronous HTTP client for driving large numbers
of concurrent HTTP/1.x and HTTP/2 requests from a single process, with
per-request timeouts, completion callbacks, and a pooled, reusable
request allocator.

Create a Loop to begin making asynchronous requests. The loop owns a
background reactor goroutine and a request pool; requests are produced
from the pool, configured, and submitted:

	loop := lift.NewLoop()
	defer loop.Close()

	h := loop.Pool().ProduceAsync("http://www.example.com/", func(h *lift.Handle) {
		r := h.Request()
		fmt.Println(r.CompletionStatus(), r.ResponseStatusCode())
	}, 5*time.Second, 0)
	loop.StartRequest(h)

The completion callback runs on the reactor goroutine, exactly once
per submission, after the response (or failure) has been recorded on
the request. The Handle it receives is valid for the duration of the
callback; call Retain to keep the request alive longer. Callbacks may
submit new requests to the same loop.

Every request carries two independent deadlines. The transport timeout
bounds the transfer itself; when it expires the transfer is torn down
and the request completes with status.Timeout. The optional response
wait is a user-facing deadline: when it expires first, the callback
fires early with status.ResponseWaitTimeout while the underlying
transfer keeps running until the transport timeout, so a slow response
does not cost the connection. The early classification is sticky; the
transfer's eventual completion is invisible to user code.

Request objects are recycled. Producing from a pool pops an idle
request or allocates one; when the last Handle and the loop's internal
references are gone, the request is reset and returned to the pool.
Reserve pre-allocates for a known fan-out:

	pool := loop.Pool()
	pool.Reserve(100)
	for i := 0; i < 100; i++ {
		loop.StartRequest(pool.ProduceAsync(url, onComplete, time.Second, 0))
	}

For blocking, one-off requests there is a synchronous path: build a
handle and call Perform, or use the Client convenience façade:

	cl := &lift.Client{Timeout: 5 * time.Second}
	h := cl.Get("http://www.example.com/")
	defer h.Release()
	fmt.Println(h.Request().ResponseStatusCode())

How a request finished is reported as a status.Status, which is
distinct from the HTTP response status code; see package status.
*/
package lift
