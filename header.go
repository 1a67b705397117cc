// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// A Header is a single name/value pair on a request or response.
//
// Headers are kept as an ordered sequence, not a map, so that the
// order in which AddHeader was called is the order in which user code
// reads them back. Response headers are ordered by field name; values
// of a repeated name keep the order in which they were received.
type Header struct {
	// Name is the header field name, e.g. "Connection".
	Name string
	// Value is the header field value, e.g. "Keep-Alive". It may be
	// empty; an empty value is legal and is sometimes used to suppress
	// a header the transport would otherwise add on its own.
	Value string
}

func validHeader(name, value string) bool {
	return httpguts.ValidHeaderFieldName(name) &&
		httpguts.ValidHeaderFieldValue(value)
}

// commitHeaders converts the ordered header sequence into the
// http.Header the transport consumes. Repeated names accumulate in
// call order.
func commitHeaders(ordered []Header) http.Header {
	h := make(http.Header, len(ordered))
	for _, hdr := range ordered {
		h[http.CanonicalHeaderKey(hdr.Name)] = append(h[http.CanonicalHeaderKey(hdr.Name)], hdr.Value)
	}
	return h
}
