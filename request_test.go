// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotx/liblifthttp/status"
)

func TestRequestDefaults(t *testing.T) {
	r := newRequest()
	assert.Equal(t, MethodGet, r.Method())
	assert.Equal(t, VersionBest, r.Version())
	assert.Equal(t, status.Building, r.CompletionStatus())
	assert.Equal(t, StatusCodeUnknown, r.ResponseStatusCode())
	assert.Equal(t, time.Duration(0), r.TransportTimeout())
	assert.Equal(t, time.Duration(0), r.ResponseWait())
	assert.True(t, r.followRedirects)
	assert.Equal(t, int64(-1), r.maxRedirects)
	assert.Equal(t, int64(-1), r.maxDownloadBytes)
	assert.True(t, r.verifyPeer)
	assert.True(t, r.verifyHost)
	_, ok := r.TotalElapsed()
	assert.False(t, ok)
}

func TestRequestSetURL(t *testing.T) {
	r := newRequest()
	assert.Error(t, r.SetURL(""))
	require.NoError(t, r.SetURL("http://example.com/x"))
	assert.Equal(t, "http://example.com/x", r.URL())
}

func TestRequestHeaderOrder(t *testing.T) {
	r := newRequest()
	require.NoError(t, r.AddHeaderValue("B-Header", "2"))
	require.NoError(t, r.AddHeaderValue("A-Header", "1"))
	require.NoError(t, r.AddHeader("Expect"))
	require.NoError(t, r.AddHeaderValue("A-Header", "3"))

	// Read-back preserves AddHeader call order, not name order.
	assert.Equal(t, []Header{
		{Name: "B-Header", Value: "2"},
		{Name: "A-Header", Value: "1"},
		{Name: "Expect", Value: ""},
		{Name: "A-Header", Value: "3"},
	}, r.RequestHeaders())

	// The committed form accumulates repeated names in call order.
	r.prepare()
	assert.Equal(t, []string{"1", "3"}, r.wireHeader["A-Header"])
	assert.Equal(t, []string{""}, r.wireHeader["Expect"])
}

func TestRequestHeaderValidation(t *testing.T) {
	r := newRequest()
	assert.Error(t, r.AddHeaderValue("Bad Header", "x"))
	assert.Error(t, r.AddHeaderValue("X-Ok", "bad\nvalue"))
	assert.Empty(t, r.RequestHeaders())
}

func TestRequestBodyMimeExclusive(t *testing.T) {
	r := newRequest()
	require.NoError(t, r.SetBody([]byte("data")))
	assert.ErrorIs(t, r.AddMimeField("a", "1"), errMimeAfterBody)
	assert.ErrorIs(t, r.AddMimeFile("f", "whatever"), errMimeAfterBody)

	r2 := newRequest()
	require.NoError(t, r2.AddMimeField("a", "1"))
	assert.ErrorIs(t, r2.SetBody([]byte("data")), errBodyAfterMime)
}

func TestRequestAddMimeFileMissing(t *testing.T) {
	r := newRequest()
	err := r.AddMimeFile("f", filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
	assert.Empty(t, r.mime)
}

func TestRequestAddMimeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0600))

	r := newRequest()
	require.NoError(t, r.AddMimeField("a", "1"))
	require.NoError(t, r.AddMimeFile("f", path))

	body, contentType, err := buildMimeBody(r.mime)
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data; boundary=")
	assert.Contains(t, string(body), `name="a"`)
	assert.Contains(t, string(body), "file contents")
}

func TestRequestReset(t *testing.T) {
	r := newRequest()
	require.NoError(t, r.SetURL("http://example.com"))
	r.SetMethod(MethodPost)
	r.SetVersion(Version2)
	r.SetTransportTimeout(time.Second)
	r.SetResponseWait(time.Millisecond)
	r.SetOnComplete(func(*Handle) {})
	r.SetMaxDownloadBytes(10)
	r.SetFollowRedirects(false, 2)
	r.SetVerifyPeer(false)
	require.NoError(t, r.AddHeaderValue("X", "y"))
	require.NoError(t, r.SetBody([]byte("b")))
	r.respStatusCode = 200
	r.respBody = []byte("resp")
	r.numConnects = 3
	r.redirectCount = 2
	r.completionStatus = status.Success
	r.fired = 1

	r.Reset()

	assert.Equal(t, "", r.URL())
	assert.Equal(t, MethodGet, r.Method())
	assert.Equal(t, VersionBest, r.Version())
	assert.Equal(t, status.Building, r.CompletionStatus())
	assert.Equal(t, StatusCodeUnknown, r.ResponseStatusCode())
	assert.Empty(t, r.RequestHeaders())
	assert.Nil(t, r.Body())
	assert.Nil(t, r.ResponseBody())
	assert.Nil(t, r.onComplete)
	assert.Equal(t, 0, r.NumConnects())
	assert.Equal(t, 0, r.RedirectCount())
	assert.Equal(t, int64(-1), r.maxDownloadBytes)
	assert.True(t, r.followRedirects)
	assert.True(t, r.verifyPeer)
	assert.Equal(t, int32(0), r.fired)
}

func TestRequestPrepareReArmsLatch(t *testing.T) {
	r := newRequest()
	require.True(t, r.fireOnce())
	assert.False(t, r.fireOnce())
	r.prepare()
	assert.Equal(t, status.Executing, r.CompletionStatus())
	assert.True(t, r.fireOnce())
}

func TestParseRequestURL(t *testing.T) {
	_, err := parseRequestURL("")
	assert.Error(t, err)
	_, err = parseRequestURL("ftp://example.com/")
	assert.Error(t, err)
	_, err = parseRequestURL("http://")
	assert.Error(t, err)
	u, err := parseRequestURL("https://example.com/path")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}
