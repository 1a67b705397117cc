// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"sync"
	"time"

	"github.com/spotx/liblifthttp/status"
)

// The process-wide engine behind synchronous performs. Built on first
// use; shares its transports (and so its connection caches) across
// every synchronous request in the process.
var (
	syncEngineOnce sync.Once
	syncEngine     *engine
)

func sharedSyncEngine() *engine {
	syncEngineOnce.Do(func() {
		syncEngine = newEngine()
	})
	return syncEngine
}

var defaultClientPool = NewPool()

// Perform executes the request synchronously, blocking the calling
// goroutine until the transfer finishes or the transport timeout
// expires. It returns true if the request completed with Success.
//
// Perform ignores the response-wait deadline and the completion
// callback; those belong to the asynchronous path. The outcome is read
// from the request itself: CompletionStatus, ResponseStatusCode,
// ResponseBody, and so on.
func (h *Handle) Perform() bool {
	st := h.Request()
	if st == nil {
		return false
	}
	st.prepare()
	sharedSyncEngine().performSync(st)
	return st.completionStatus == status.Success
}

// A Client is a convenience façade over the synchronous path. Its zero
// value is a valid configuration: requests come from a shared
// process-wide pool and carry no transport timeout.
//
// Client exists for one-shot, blocking use cases. For driving many
// concurrent requests, use a Loop.
type Client struct {
	// Pool supplies the request objects. If Pool is nil, a shared
	// process-wide pool is used.
	Pool *Pool
	// Timeout is the transport timeout applied to requests made by the
	// convenience methods. Zero means no timeout.
	Timeout time.Duration
}

func (c *Client) pool() *Pool {
	if c.Pool == nil {
		return defaultClientPool
	}
	return c.Pool
}

// Do performs an already-built request synchronously. It returns true
// if the request completed with Success. The handle remains owned by
// the caller.
func (c *Client) Do(h *Handle) bool {
	return h.Perform()
}

// Get issues a blocking GET to the URL. The returned handle carries
// the outcome and must be Released by the caller.
func (c *Client) Get(url string) *Handle {
	h := c.pool().Produce(url, c.Timeout)
	h.Perform()
	return h
}

// Head issues a blocking HEAD to the URL. The returned handle carries
// the outcome and must be Released by the caller.
func (c *Client) Head(url string) *Handle {
	h := c.pool().Produce(url, c.Timeout)
	h.Request().SetMethod(MethodHead)
	h.Perform()
	return h
}

// Post issues a blocking POST of body to the URL with the given
// Content-Type. The returned handle carries the outcome and must be
// Released by the caller.
func (c *Client) Post(url, contentType string, body []byte) *Handle {
	h := c.pool().Produce(url, c.Timeout)
	st := h.Request()
	st.SetMethod(MethodPost)
	_ = st.SetBody(body)
	if contentType != "" {
		_ = st.AddHeaderValue("Content-Type", contentType)
	}
	h.Perform()
	return h
}
