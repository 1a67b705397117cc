// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

// A Method identifies the HTTP method a request will be sent with. The
// zero value is MethodGet.
type Method int

const (
	// MethodGet sends the request as an HTTP GET.
	MethodGet Method = iota
	// MethodHead sends the request as an HTTP HEAD. No response body is
	// expected.
	MethodHead
	// MethodPost sends the request as an HTTP POST.
	MethodPost
	// MethodPut sends the request as an HTTP PUT.
	MethodPut
	// MethodDelete sends the request as an HTTP DELETE.
	MethodDelete
	// MethodConnect sends the request as an HTTP CONNECT.
	MethodConnect
	// MethodOptions sends the request as an HTTP OPTIONS.
	MethodOptions
	// MethodPatch sends the request as an HTTP PATCH.
	MethodPatch

	// methodSentinel provides the total number of methods typed as a
	// Method.
	methodSentinel
)

var methodNames = []string{
	"GET",
	"HEAD",
	"POST",
	"PUT",
	"DELETE",
	"CONNECT",
	"OPTIONS",
	"PATCH",
}

// Name returns the wire token for the method, e.g. "GET".
func (m Method) Name() string {
	if m < 0 || m >= methodSentinel {
		return "GET"
	}
	return methodNames[int(m)]
}

// String returns the wire token for the method.
func (m Method) String() string {
	return m.Name()
}
