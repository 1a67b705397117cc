// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	assert.Equal(t, Success, Categorize(nil))
	assert.Equal(t, Error, Categorize(errors.New("foo")))
	assert.Equal(t, Error, Categorize(wrapper{errors.New("bar")}))
	assert.Equal(t, Timeout, Categorize(context.DeadlineExceeded))
	assert.Equal(t, Timeout, Categorize(syscall.ETIMEDOUT))
	assert.Equal(t, Timeout, Categorize(timeout{}))
	assert.Equal(t, Timeout, Categorize(&url.Error{Op: "Get", Err: timeout{}}))
	assert.Equal(t, Timeout, Categorize(wrapper{&url.Error{Op: "Get", Err: context.DeadlineExceeded}}))
	assert.Equal(t, ConnectDNSError, Categorize(&net.DNSError{Err: "no such host", Name: "nope.invalid"}))
	assert.Equal(t, ConnectDNSError, Categorize(&net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host"}}))
	assert.Equal(t, ConnectSSLError, Categorize(x509.UnknownAuthorityError{}))
	assert.Equal(t, ConnectSSLError, Categorize(wrapper{x509.HostnameError{Host: "example.com"}}))
	assert.Equal(t, ConnectError, Categorize(syscall.ECONNREFUSED))
	assert.Equal(t, ConnectError, Categorize(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.Equal(t, ConnectError, Categorize(&url.Error{Op: "Get", Err: &net.OpError{Op: "dial", Err: errors.New("unreachable")}}))
	assert.Equal(t, ResponseEmpty, Categorize(io.EOF))
	assert.Equal(t, ResponseEmpty, Categorize(&url.Error{Op: "Get", Err: io.ErrUnexpectedEOF}))
	assert.Equal(t, Error, Categorize(&net.OpError{Op: "read", Err: syscall.ECONNRESET}))
}

func TestCategorizeTimeoutWins(t *testing.T) {
	// A dial that timed out is a Timeout, not a ConnectError.
	err := &net.OpError{Op: "dial", Err: timeoutWrapper{true, syscall.ECONNREFUSED}}
	assert.Equal(t, Timeout, Categorize(err))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Building", Building.Name())
	assert.Equal(t, "Success", Success.String())
	assert.Equal(t, "ResponseWaitTimeout", ResponseWaitTimeout.Name())
	assert.Equal(t, "Error", Error.Name())
	assert.Equal(t, "Unknown", Status(-1).Name())
	assert.Equal(t, "Unknown", statusSentinel.Name())
}

type timeout struct{}

func (timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
