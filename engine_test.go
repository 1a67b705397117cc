// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/net/http2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotx/liblifthttp/status"
)

func TestEngineTransportFor(t *testing.T) {
	e := newEngine()

	st := newRequest()
	tr := e.transportFor(st, "http")
	h1, ok := tr.(*http.Transport)
	require.True(t, ok)
	assert.True(t, h1.ForceAttemptHTTP2)

	st.SetVersion(Version11)
	h1, ok = e.transportFor(st, "http").(*http.Transport)
	require.True(t, ok)
	assert.False(t, h1.ForceAttemptHTTP2)

	st.SetVersion(Version2)
	_, ok = e.transportFor(st, "https").(*http2.Transport)
	assert.True(t, ok)
	// No TLS, no upgrade path: fall back to negotiation.
	_, ok = e.transportFor(st, "http").(*http.Transport)
	assert.True(t, ok)

	st.SetVersion(Version2PriorKnowledge)
	h2c, ok := e.transportFor(st, "http").(*http2.Transport)
	require.True(t, ok)
	assert.True(t, h2c.AllowHTTP)
	h2, ok := e.transportFor(st, "https").(*http2.Transport)
	require.True(t, ok)
	assert.False(t, h2.AllowHTTP)
}

func TestEngineTransportForInsecure(t *testing.T) {
	e := newEngine()
	st := newRequest()
	st.SetVersion(Version11)

	secure := e.transportFor(st, "https").(*http.Transport)
	assert.False(t, secure.TLSClientConfig.InsecureSkipVerify)

	st.SetVerifyPeer(false)
	insecure := e.transportFor(st, "https").(*http.Transport)
	assert.True(t, insecure.TLSClientConfig.InsecureSkipVerify)

	// Either flag alone disables verification.
	st.SetVerifyPeer(true)
	st.SetVerifyHost(false)
	assert.Same(t, insecure, e.transportFor(st, "https"))
}

func TestFlattenHeaders(t *testing.T) {
	h := http.Header{
		"Zulu":  {"3"},
		"Alpha": {"1", "2"},
	}
	assert.Equal(t, []Header{
		{Name: "Alpha", Value: "1"},
		{Name: "Alpha", Value: "2"},
		{Name: "Zulu", Value: "3"},
	}, flattenHeaders(h))
}

func TestReadCapped(t *testing.T) {
	body, written, err := readCapped(strings.NewReader("0123456789"), -1)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(body))
	assert.Equal(t, int64(10), written)

	body, written, err = readCapped(strings.NewReader("0123456789"), 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
	assert.Equal(t, int64(4), written)

	body, written, err = readCapped(strings.NewReader("0123456789"), 0)
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.Equal(t, int64(0), written)

	body, written, err = readCapped(strings.NewReader("0123"), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(4), written)
	assert.Equal(t, "0123", string(body))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, status.Success, classify(&result{received: true}))
	assert.Equal(t, status.Timeout, classify(&result{connErr: errTimeout{}}))
	assert.Equal(t, status.ResponseEmpty, classify(&result{connErr: io.EOF}))
	assert.Equal(t, status.Error, classify(&result{connErr: errors.New("boom")}))
	assert.Equal(t, status.DownloadError, classify(&result{received: true, readErr: io.ErrUnexpectedEOF}))
	// A body read that dies on the transport deadline is a Timeout,
	// not a DownloadError.
	assert.Equal(t, status.Timeout, classify(&result{received: true, readErr: errTimeout{}}))
}

type errTimeout struct{}

func (errTimeout) Error() string { return "deadline exceeded" }

func (errTimeout) Timeout() bool { return true }
