// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/spotx/liblifthttp/status"
)

// StatusCodeUnknown is the HTTP response status code reported for a
// request that never received a response. It is a sentinel distinct
// from every real HTTP status code.
const StatusCodeUnknown = 0

var (
	errBodyAfterMime = errors.New("lift: cannot SetBody after adding MIME fields")
	errMimeAfterBody = errors.New("lift: cannot add MIME fields after SetBody")
	errEmptyURL      = errors.New("lift: empty URL")
)

// A Request carries all per-request state: what to send, how to send
// it, and, once the transfer finishes, what came back.
//
// Requests are produced by a Pool and reached through a Handle. Builder
// methods configure the request before submission; read accessors
// report the outcome afterwards, typically from inside the completion
// callback. Between StartRequest and the completion callback the
// request belongs to the event loop and must not be touched.
type Request struct {
	url               string
	method            Method
	version           Version
	headers           []Header
	wireHeader        http.Header
	body              []byte
	mime              []mimeField
	verifyPeer        bool
	verifyHost        bool
	followRedirects   bool
	maxRedirects      int64
	maxDownloadBytes  int64
	transportTimeout  time.Duration
	responseWait      time.Duration
	acceptAllEncoding bool
	onComplete        func(*Handle)

	completionStatus status.Status
	respStatusCode   int
	respHeaders      []Header
	respBody         []byte
	bytesWritten     int64
	numConnects      int
	redirectCount    int

	start       time.Time
	totalTime   time.Duration
	hasTotal    bool

	// One-shot latch ensuring the completion callback fires at most
	// once per transfer attempt. Claimed by atomic test-and-set.
	fired int32

	// Slot token in the loop's response-wait index. Reactor-only.
	waitToken *waitEntry
}

func newRequest() *Request {
	r := &Request{}
	r.applyDefaults()
	return r
}

func (r *Request) applyDefaults() {
	r.method = MethodGet
	r.version = VersionBest
	r.verifyPeer = true
	r.verifyHost = true
	r.followRedirects = true
	r.maxRedirects = -1
	r.maxDownloadBytes = -1
	r.completionStatus = status.Building
	r.respStatusCode = StatusCodeUnknown
}

// SetURL sets the URL for the request. The URL is parsed when the
// transfer starts; a malformed URL completes with FailedToStart.
func (r *Request) SetURL(url string) error {
	if url == "" {
		return errEmptyURL
	}
	r.url = url
	return nil
}

// URL returns the request URL.
func (r *Request) URL() string {
	return r.url
}

// SetMethod sets the HTTP method. The default is MethodGet.
func (r *Request) SetMethod(m Method) {
	r.method = m
}

// Method returns the HTTP method.
func (r *Request) Method() Method {
	return r.method
}

// SetVersion sets the HTTP version preference. The default is
// VersionBest.
func (r *Request) SetVersion(v Version) {
	r.version = v
}

// Version returns the HTTP version preference.
func (r *Request) Version() Version {
	return r.version
}

// SetTransportTimeout sets the transport-level timeout for the whole
// transfer. Zero means no timeout.
//
// If a response wait is also set, the transport timeout should be the
// longer of the two: it keeps the underlying connection alive after
// the response wait has already reported back to the user.
func (r *Request) SetTransportTimeout(timeout time.Duration) {
	r.transportTimeout = timeout
}

// TransportTimeout returns the transport-level timeout.
func (r *Request) TransportTimeout() time.Duration {
	return r.transportTimeout
}

// SetResponseWait sets the user-facing response-wait deadline. When it
// expires before the transfer finishes, the completion callback fires
// with ResponseWaitTimeout while the underlying transfer continues
// until the transport timeout. Zero disables the deadline.
func (r *Request) SetResponseWait(wait time.Duration) {
	r.responseWait = wait
}

// ResponseWait returns the response-wait deadline, or zero if none is
// set.
func (r *Request) ResponseWait() time.Duration {
	return r.responseWait
}

// SetOnComplete sets the completion callback. The callback is invoked
// exactly once per submission, on the event loop goroutine. The Handle
// it receives is valid for the duration of the callback; use Retain to
// keep the request alive longer.
func (r *Request) SetOnComplete(fn func(*Handle)) {
	r.onComplete = fn
}

// SetMaxDownloadBytes caps the number of response body bytes written.
// Negative means unlimited. The transfer is aborted once the cap is
// reached; reaching it exactly still completes with Success.
func (r *Request) SetMaxDownloadBytes(n int64) {
	r.maxDownloadBytes = n
	r.bytesWritten = 0
}

// SetFollowRedirects controls whether redirects are followed. Enabled
// by default. maxRedirects caps how many redirects are followed:
// negative means unlimited, zero means none. When the cap is reached
// the last redirect response is surfaced as the result.
func (r *Request) SetFollowRedirects(follow bool, maxRedirects int64) {
	r.followRedirects = follow
	r.maxRedirects = maxRedirects
}

// AddHeader adds a request header with an empty value. An empty value
// is occasionally useful to suppress a header the transport would add
// on its own, e.g. Expect.
func (r *Request) AddHeader(name string) error {
	return r.AddHeaderValue(name, "")
}

// AddHeaderValue adds a request header with its value. Headers
// accumulate in call order and are sent, and read back, in that order.
func (r *Request) AddHeaderValue(name, value string) error {
	if !validHeader(name, value) {
		return fmt.Errorf("lift: invalid header %q", name)
	}
	r.headers = append(r.headers, Header{Name: name, Value: value})
	r.wireHeader = nil
	return nil
}

// RequestHeaders returns the request headers in the order they were
// added.
func (r *Request) RequestHeaders() []Header {
	return r.headers
}

// SetBody sets the raw request body. Mutually exclusive with MIME
// fields: a request carries either a raw body or a MIME form, never
// both.
func (r *Request) SetBody(body []byte) error {
	if len(r.mime) > 0 {
		return errBodyAfterMime
	}
	r.body = body
	return nil
}

// Body returns the raw request body, if any.
func (r *Request) Body() []byte {
	return r.body
}

// AddMimeField adds a MIME form field with an inline value. Mutually
// exclusive with SetBody.
func (r *Request) AddMimeField(name, value string) error {
	if len(r.body) > 0 {
		return errMimeAfterBody
	}
	r.mime = append(r.mime, mimeField{name: name, value: value})
	return nil
}

// AddMimeFile adds a MIME form field whose contents come from a file.
// The file must exist when AddMimeFile is called; its contents are
// read when the transfer starts, not now.
func (r *Request) AddMimeFile(name, path string) error {
	if len(r.body) > 0 {
		return errMimeAfterBody
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("lift: MIME file field %q: %w", name, err)
	}
	r.mime = append(r.mime, mimeField{name: name, filePath: path})
	return nil
}

// SetVerifyPeer controls TLS certificate chain verification.
func (r *Request) SetVerifyPeer(verify bool) {
	r.verifyPeer = verify
}

// SetVerifyHost controls TLS host name verification.
func (r *Request) SetVerifyHost(verify bool) {
	r.verifyHost = verify
}

// AcceptAllEncoding asks the server for every content encoding the
// library can decode and decompresses the response transparently.
// Mutually exclusive with adding an Accept-Encoding header of your
// own.
func (r *Request) AcceptAllEncoding() {
	r.acceptAllEncoding = true
}

// ResponseStatusCode returns the HTTP status code of the response, or
// StatusCodeUnknown if no response was ever received.
func (r *Request) ResponseStatusCode() int {
	return r.respStatusCode
}

// ResponseHeaders returns the response headers sorted by field name.
// Values of a repeated name keep the order in which they were
// received; the order across different names on the wire is not kept.
func (r *Request) ResponseHeaders() []Header {
	return r.respHeaders
}

// ResponseBody returns the response body. The returned slice is owned
// by the request: it is valid until the request goes back to the pool.
func (r *Request) ResponseBody() []byte {
	return r.respBody
}

// CompletionStatus returns how the request finished. This is the
// library's classification of the transfer, not the HTTP status code.
func (r *Request) CompletionStatus() status.Status {
	return r.completionStatus
}

// TotalElapsed returns the total transfer time and whether it has been
// recorded yet. It is always recorded before the completion callback
// fires and does not change afterwards.
func (r *Request) TotalElapsed() (time.Duration, bool) {
	return r.totalTime, r.hasTotal
}

// NumConnects returns the number of connections established to carry
// out this request.
func (r *Request) NumConnects() int {
	return r.numConnects
}

// RedirectCount returns the number of redirects that were followed.
func (r *Request) RedirectCount() int {
	return r.redirectCount
}

// Reset returns the request to its default, reusable state. Everything
// is cleared: URL, method, headers, bodies, deadlines, callback, and
// all response state.
func (r *Request) Reset() {
	*r = Request{headers: r.headers[:0]}
	r.applyDefaults()
}

// prepare readies the request for a transfer attempt: commits the
// header list into the transport's format, clears response state left
// over from a previous attempt, and re-arms the callback latch.
// Called before the request is handed to the event loop, or at the top
// of a synchronous perform.
func (r *Request) prepare() {
	if r.wireHeader == nil && len(r.headers) > 0 {
		r.wireHeader = commitHeaders(r.headers)
	}
	r.respHeaders = nil
	r.respBody = nil
	r.respStatusCode = StatusCodeUnknown
	r.bytesWritten = 0
	r.numConnects = 0
	r.redirectCount = 0
	r.totalTime = 0
	r.hasTotal = false
	r.waitToken = nil
	r.completionStatus = status.Executing
	atomic.StoreInt32(&r.fired, 0)
}

// fireOnce claims the callback latch. Only the first caller per
// transfer attempt gets true.
func (r *Request) fireOnce() bool {
	return atomic.CompareAndSwapInt32(&r.fired, 0, 1)
}
