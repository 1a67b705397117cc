// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"
)

// A Status classifies how a request finished. It is assigned by the
// event loop (or by a synchronous perform) and read back by user code,
// typically inside the completion callback.
type Status int

const (
	// Building is the initial state of a request that has not been
	// submitted yet.
	Building Status = iota
	// Executing indicates the request has been submitted and its
	// transfer is in progress.
	Executing
	// Success indicates the transfer finished cleanly. A transfer that
	// was intentionally aborted because it reached its max-download-bytes
	// limit exactly also completes with Success.
	Success
	// ResponseEmpty indicates the transport returned zero bytes: the
	// server closed the connection without sending any response.
	ResponseEmpty
	// Timeout indicates the transport-level timeout expired before the
	// transfer finished.
	Timeout
	// ConnectError indicates a connection to the remote host could not
	// be established.
	ConnectError
	// ConnectDNSError indicates name resolution failed.
	ConnectDNSError
	// ConnectSSLError indicates the TLS handshake or certificate
	// verification failed.
	ConnectSSLError
	// DownloadError indicates reading the response body failed for a
	// reason other than the intentional max-download-bytes abort.
	DownloadError
	// FailedToStart indicates the transfer engine rejected the request
	// at attach time, before any bytes were exchanged.
	FailedToStart
	// ResponseWaitTimeout indicates the response-wait deadline expired
	// before the transfer finished. This classification is sticky: a
	// later transport completion for the same request does not replace
	// it.
	ResponseWaitTimeout
	// Error indicates any other transport failure.
	Error

	// statusSentinel provides the total number of statuses typed as a
	// Status.
	statusSentinel
)

var statusNames = []string{
	"Building",
	"Executing",
	"Success",
	"ResponseEmpty",
	"Timeout",
	"ConnectError",
	"ConnectDNSError",
	"ConnectSSLError",
	"DownloadError",
	"FailedToStart",
	"ResponseWaitTimeout",
	"Error",
}

// Name returns the name of the status.
func (s Status) Name() string {
	if s < 0 || s >= statusSentinel {
		return "Unknown"
	}
	return statusNames[int(s)]
}

// String returns the name of the status.
func (s Status) String() string {
	return s.Name()
}

// Categorize maps a transport error to a completion status.
//
// A nil error produces Success. Categorize looks at wrapped cause
// errors contained within err, not just err itself, so *url.Error
// values from net/http categorize by their underlying cause.
//
// Categorize never returns ResponseWaitTimeout or FailedToStart; those
// statuses are assigned by the event loop, not derived from a transport
// error. Failures while reading an already-received response body are
// the caller's concern (see DownloadError); Categorize classifies the
// error that prevented a response from arriving.
func Categorize(err error) Status {
	if err == nil {
		return Success
	}

	// Timeouts first: a timed-out dial also matches the dial checks
	// below, and the timeout classification wins.
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ConnectDNSError
	}

	if isTLSError(err) {
		return ConnectSSLError
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ConnectError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ConnectError
	}

	// The server accepted the connection but hung up without writing a
	// single byte of response.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ResponseEmpty
	}

	return Error
}

func isTLSError(err error) bool {
	var recordHeader tls.RecordHeaderError
	if errors.As(err, &recordHeader) {
		return true
	}
	var certVerification *tls.CertificateVerificationError
	if errors.As(err, &certVerification) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var certInvalid x509.CertificateInvalidError
	return errors.As(err, &certInvalid)
}

type hasTimeout interface {
	Timeout() bool
}
