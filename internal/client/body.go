package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/desertthunder/sinewave/internal/shared"
)

const contentTypeJSON = "application/json"

// Body is a request payload. It is encoded once and replayed byte for byte on retry.
//
// The zero Body sends no payload.
type Body struct {
	data        []byte
	contentType string
	binary      bool
	err         error
}

// JSONBody encodes v as JSON. Encoding errors surface from [Client.Do].
func JSONBody(v any) Body {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{err: fmt.Errorf("%w: failed to encode body: %v", shared.ErrInvalidInput, err)}
	}
	return Body{data: data}
}

// RawBody sends data as an opaque payload with the given content type.
func RawBody(data []byte, contentType string) Body {
	return Body{data: data, contentType: contentType, binary: true}
}

// FilePart is a file field of a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// MultipartBody builds a multipart/form-data payload. The content type, which
// carries the boundary, comes from the encoder and never from the caller.
func MultipartBody(fields map[string]string, files ...FilePart) Body {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return Body{err: fmt.Errorf("failed to write form field %s: %w", k, err)}
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return Body{err: fmt.Errorf("failed to create form file %s: %w", f.Field, err)}
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return Body{err: fmt.Errorf("failed to read %s: %w", f.Filename, err)}
		}
	}

	if err := w.Close(); err != nil {
		return Body{err: fmt.Errorf("failed to finish multipart body: %w", err)}
	}
	return Body{data: buf.Bytes(), contentType: w.FormDataContentType(), binary: true}
}

// IsBinary reports whether the payload is opaque (raw or multipart).
func (b Body) IsBinary() bool { return b.binary }

// ContentType is the payload's own content type, empty for JSON and empty bodies.
func (b Body) ContentType() string { return b.contentType }

// Len returns the encoded payload size.
func (b Body) Len() int { return len(b.data) }

func (b Body) reader() io.Reader {
	if b.data == nil {
		return nil
	}
	return bytes.NewReader(b.data)
}
