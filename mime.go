// Copyright 2026 The liblifthttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lift

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// A mimeField is one field of a multipart form: either an inline
// name/value pair or a file reference whose contents are read when the
// transfer starts.
type mimeField struct {
	name     string
	value    string
	filePath string
}

// buildMimeBody encodes the form fields as a multipart/form-data body
// and returns it with its Content-Type (which carries the boundary).
// File fields are opened and read here, on the transfer's own
// goroutine, so file contents are current as of the transfer rather
// than as of AddMimeFile.
func buildMimeBody(fields []mimeField) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if f.filePath == "" {
			if err := w.WriteField(f.name, f.value); err != nil {
				return nil, "", err
			}
			continue
		}
		part, err := w.CreateFormFile(f.name, filepath.Base(f.filePath))
		if err != nil {
			return nil, "", err
		}
		file, err := os.Open(f.filePath)
		if err != nil {
			return nil, "", fmt.Errorf("lift: MIME file field %q: %w", f.name, err)
		}
		_, err = io.Copy(part, file)
		file.Close()
		if err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
