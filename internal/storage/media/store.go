// Package media stores client uploads and reads them back for export.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotFound = errors.New("media not found")

// Store persists binary objects by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// KeyFor returns the storage key of an uploaded file id.
func KeyFor(id string) string {
	return "media/" + id
}

// ReadAll loads an object fully. The content type is re-sniffed when the
// store reports a generic one.
func ReadAll(ctx context.Context, s Store, key string) ([]byte, string, error) {
	rc, contentType, err := s.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", key, err)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(b).String()
	}
	return b, contentType, nil
}

// DataURL loads an object as a base64 data URL.
func DataURL(ctx context.Context, s Store, key string) (string, error) {
	b, contentType, err := ReadAll(ctx, s, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString("data:")
	buf.WriteString(contentType)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(b))
	return buf.String(), nil
}
