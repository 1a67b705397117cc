// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

// A Version expresses the HTTP version preference for a request. The
// zero value is VersionBest.
//
// The preference selects which transport the transfer engine binds the
// request to; it is not a hard wire-format guarantee. See the comments
// on the individual values.
type Version int

const (
	// VersionBest lets the transport negotiate the best available
	// version: HTTP/2 via ALPN on TLS connections, HTTP/1.1 otherwise.
	VersionBest Version = iota
	// Version10 requests HTTP/1.0. The Go transport speaks HTTP/1.1 on
	// the wire; the preference pins the request to the HTTP/1.x
	// transport and disables HTTP/2 negotiation.
	Version10
	// Version11 pins the request to HTTP/1.1.
	Version11
	// Version2 requests HTTP/2. Over https URLs the request uses the
	// HTTP/2 transport directly; http URLs fall back to negotiation.
	Version2
	// Version2TLS requests HTTP/2 over TLS only, equivalent to Version2
	// for https URLs.
	Version2TLS
	// Version2PriorKnowledge speaks HTTP/2 immediately without upgrade
	// or ALPN, including cleartext h2c for http URLs.
	Version2PriorKnowledge

	// versionSentinel provides the total number of versions typed as a
	// Version.
	versionSentinel
)

var versionNames = []string{
	"Best",
	"HTTP/1.0",
	"HTTP/1.1",
	"HTTP/2",
	"HTTP/2-TLS",
	"HTTP/2-PriorKnowledge",
}

// Name returns the name of the version preference.
func (v Version) Name() string {
	if v < 0 || v >= versionSentinel {
		return "Best"
	}
	return versionNames[int(v)]
}

// String returns the name of the version preference.
func (v Version) String() string {
	return v.Name()
}
