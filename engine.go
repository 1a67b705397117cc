// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/http2"

	"github.com/spotx/liblifthttp/status"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package. The transfer
// engine drives every request through an HTTPDoer; in practice this is
// an http.Client wrapping one of the engine's shared transports.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response, following
	// the contract documented on http.Client from net/http.
	Do(r *http.Request) (*http.Response, error)
}

// Completed transfers waiting for the reactor to drain them. Workers
// block on the channel once the backlog fills, which bounds how far
// completions can run ahead of the reactor.
const completionBacklog = 64

// The Accept-Encoding value sent by AcceptAllEncoding: every encoding
// decodeBody can transparently reverse.
const acceptedEncodings = "gzip, deflate"

type transportFamily int

const (
	// familyNegotiate lets ALPN pick HTTP/2 or HTTP/1.1.
	familyNegotiate transportFamily = iota
	// familyHTTP1 pins HTTP/1.x.
	familyHTTP1
	// familyHTTP2 speaks HTTP/2 over TLS.
	familyHTTP2
	// familyH2C speaks cleartext HTTP/2 with prior knowledge.
	familyH2C
)

type transportKey struct {
	family   transportFamily
	insecure bool
}

// A transfer is one in-flight request attempt: the engine's borrow of
// a request state plus the worker's private result buffers. The
// request's own buffers are untouched until the reactor installs the
// result, so the state has exactly one writer at every point in the
// transfer's life.
type transfer struct {
	shared *sharedRequest
	url    *url.URL
	cancel context.CancelFunc
	start  time.Time
	res    result
}

// A result carries everything the worker learned back to the reactor.
type result struct {
	received     bool
	statusCode   int
	headers      []Header
	body         []byte
	bytesWritten int64
	numConnects  int
	redirects    int
	elapsed      time.Duration

	// connErr is the failure that prevented a response from arriving;
	// readErr is a failure reading an already-received response body.
	// At most one is set.
	connErr error
	readErr error
}

// The engine runs the concurrent HTTP transfers. It borrows request
// states from the reactor: attach registers a state and spawns a
// worker goroutine that drives the transport, and the worker hands the
// state back by sending its transfer on the completions channel.
//
// Transports are built once, up front, and shared by every transfer;
// they are the expensive, connection-caching objects. attach, detach,
// and the inflight map are reactor-goroutine-only.
type engine struct {
	transports  map[transportKey]http.RoundTripper
	inflight    map[*Request]*transfer
	completions chan *transfer
}

func newEngine() *engine {
	e := &engine{
		transports:  make(map[transportKey]http.RoundTripper, 8),
		inflight:    make(map[*Request]*transfer),
		completions: make(chan *transfer, completionBacklog),
	}
	for _, insecure := range []bool{false, true} {
		tlsConfig := &tls.Config{InsecureSkipVerify: insecure}
		e.transports[transportKey{familyHTTP1, insecure}] = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     tlsConfig,
			DisableCompression:  true,
			MaxIdleConnsPerHost: 64,
		}
		e.transports[transportKey{familyNegotiate, insecure}] = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     tlsConfig,
			DisableCompression:  true,
			MaxIdleConnsPerHost: 64,
			ForceAttemptHTTP2:   true,
		}
		e.transports[transportKey{familyHTTP2, insecure}] = &http2.Transport{
			TLSClientConfig:    tlsConfig,
			DisableCompression: true,
		}
		e.transports[transportKey{familyH2C, insecure}] = &http2.Transport{
			AllowHTTP:          true,
			DisableCompression: true,
			// Cleartext prior knowledge: dial plain TCP where the
			// transport would dial TLS.
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}
	}
	return e
}

func (e *engine) transportFor(st *Request, scheme string) http.RoundTripper {
	insecure := !st.verifyPeer || !st.verifyHost
	family := familyNegotiate
	switch st.version {
	case Version10, Version11:
		family = familyHTTP1
	case Version2, Version2TLS:
		if scheme == "https" {
			family = familyHTTP2
		}
	case Version2PriorKnowledge:
		if scheme == "https" {
			family = familyHTTP2
		} else {
			family = familyH2C
		}
	}
	return e.transports[transportKey{family, insecure}]
}

func parseRequestURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("lift: unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("lift: URL %q missing host", raw)
	}
	return u, nil
}

// attach binds a state to a new transfer and starts its worker. The
// caller's reference to shared becomes the engine's reference; it is
// handed back through the completions channel. An error means the
// transfer never started and the caller keeps its reference.
func (e *engine) attach(s *sharedRequest) error {
	st := s.state
	u, err := parseRequestURL(st.url)
	if err != nil {
		return err
	}
	ctx, cancel := transferContext(st.transportTimeout)
	t := &transfer{shared: s, url: u, cancel: cancel, start: time.Now()}
	st.start = t.start
	e.inflight[st] = t
	go e.perform(ctx, t)
	return nil
}

// detach stops tracking a transfer and cancels its context, releasing
// the transport-level resources tied to this request. Idempotent.
func (e *engine) detach(st *Request) {
	if t, ok := e.inflight[st]; ok {
		delete(e.inflight, st)
		t.cancel()
	}
}

func transferContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// perform is the transfer worker. It drives the transport to
// completion and delivers the transfer back to the reactor.
func (e *engine) perform(ctx context.Context, t *transfer) {
	t.res = e.roundTrip(ctx, t.shared.state, t.url)
	t.res.elapsed = time.Since(t.start)
	e.completions <- t
}

// performSync is the blocking one-shot path: same transfer mechanics,
// result installed directly on the state instead of routed through a
// reactor.
func (e *engine) performSync(st *Request) {
	start := time.Now()
	u, err := parseRequestURL(st.url)
	if err != nil {
		st.completionStatus = status.FailedToStart
		st.totalTime, st.hasTotal = time.Since(start), true
		return
	}
	ctx, cancel := transferContext(st.transportTimeout)
	defer cancel()
	res := e.roundTrip(ctx, st, u)
	res.elapsed = time.Since(start)
	installResult(st, &res)
	st.totalTime, st.hasTotal = res.elapsed, true
}

// roundTrip performs one transfer attempt. It reads the state's
// builder fields, which are frozen for the duration of the transfer,
// and writes only into the returned result.
func (e *engine) roundTrip(ctx context.Context, st *Request, u *url.URL) result {
	var res result

	body := st.body
	contentType := ""
	if len(st.mime) > 0 {
		b, ct, err := buildMimeBody(st.mime)
		if err != nil {
			res.connErr = err
			return res
		}
		body, contentType = b, ct
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, st.method.String(), u.String(), reader)
	if err != nil {
		res.connErr = err
		return res
	}
	if st.wireHeader != nil {
		req.Header = st.wireHeader.Clone()
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if st.acceptAllEncoding && req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptedEncodings)
	}

	// ConnectDone may fire on a dial-race goroutine, so the counter is
	// atomic even though everything else here is worker-local.
	var connects int32
	trace := &httptrace.ClientTrace{
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				atomic.AddInt32(&connects, 1)
			}
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	redirects := 0
	var doer HTTPDoer = &http.Client{
		Transport: e.transportFor(st, u.Scheme),
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if !st.followRedirects {
				return http.ErrUseLastResponse
			}
			if st.maxRedirects >= 0 && int64(len(via)) > st.maxRedirects {
				return http.ErrUseLastResponse
			}
			redirects = len(via)
			return nil
		},
	}

	resp, err := doer.Do(req)
	res.numConnects = int(atomic.LoadInt32(&connects))
	res.redirects = redirects
	if err != nil {
		res.connErr = err
		return res
	}
	defer resp.Body.Close()

	res.received = true
	res.statusCode = resp.StatusCode
	res.headers = flattenHeaders(resp.Header)

	decoded, err := decodeBody(resp)
	if err != nil {
		res.readErr = err
		return res
	}
	res.body, res.bytesWritten, res.readErr = readCapped(decoded, st.maxDownloadBytes)
	res.numConnects = int(atomic.LoadInt32(&connects))
	return res
}

// flattenHeaders converts the transport's header map into the ordered
// pair sequence the library exposes. net/http does not preserve wire
// order across field names, so names are sorted; values within a name
// keep their received order.
func flattenHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Header, 0, len(h))
	for _, name := range names {
		for _, value := range h[name] {
			out = append(out, Header{Name: name, Value: value})
		}
	}
	return out
}

// decodeBody unwraps the content encodings advertised by
// acceptedEncodings. Transports are built with transparent compression
// disabled, so an encoded body only shows up when the request asked
// for one via AcceptAllEncoding (or its own Accept-Encoding header).
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// readCapped buffers the response body, writing at most max bytes when
// max is non-negative. Hitting the cap stops the read mid-stream; the
// unread remainder is abandoned with the connection, which is the
// intentional-abort case that still counts as a clean finish.
func readCapped(r io.Reader, max int64) (body []byte, written int64, err error) {
	if max < 0 {
		body, err = io.ReadAll(r)
		return body, int64(len(body)), err
	}
	body, err = io.ReadAll(io.LimitReader(r, max))
	return body, int64(len(body)), err
}

// installResult copies a transfer's outcome into the request state and
// classifies it. Runs on the reactor goroutine (or the caller's, for a
// synchronous perform) after the worker has finished with the result.
func installResult(st *Request, res *result) {
	if res.received {
		st.respStatusCode = res.statusCode
	} else {
		st.respStatusCode = StatusCodeUnknown
	}
	st.respHeaders = res.headers
	st.respBody = res.body
	st.bytesWritten = res.bytesWritten
	st.numConnects = res.numConnects
	st.redirectCount = res.redirects
	st.completionStatus = classify(res)
}

func classify(res *result) status.Status {
	if res.connErr != nil {
		return status.Categorize(res.connErr)
	}
	if res.readErr != nil {
		if s := status.Categorize(res.readErr); s == status.Timeout {
			return s
		}
		return status.DownloadError
	}
	return status.Success
}
