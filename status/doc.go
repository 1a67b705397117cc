// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package status defines the completion status taxonomy for lift requests
and categorizes transport errors into it.

A Status describes how a request finished from the client library's
point of view. It is distinct from the HTTP response status code: a
request that received a 500 response still completed with Success,
while a request whose connection was refused never received any HTTP
status code at all and completes with ConnectError.

Function Categorize maps an error returned by the underlying HTTP
transport to a Status. It inspects wrapped cause errors, not just the
outermost error, so it works with the *url.Error values produced by
net/http.
*/
package status
