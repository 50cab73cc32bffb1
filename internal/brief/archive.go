package brief

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultImageExt = "png"

var errNotDataURL = errors.New("not a base64 data url")

type asset struct {
	name string
	data []byte
}

// buildArchive zips assets, renaming duplicates so no entry is shadowed.
func buildArchive(assets []asset) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]int, len(assets))
	for _, a := range assets {
		name := a.name
		if n := seen[name]; n > 0 {
			ext := path.Ext(name)
			name = strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n+1) + ext
		}
		seen[a.name]++

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
		if _, err := w.Write(a.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeDataURL returns the payload of a base64 data URL and the MIME type
// from its prefix. When the prefix does not name an image type the bytes
// are sniffed instead.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	head, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(head, "data:") {
		return nil, "", errNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data url: %w", err)
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mimetype.Detect(raw).String()
	}
	return raw, contentType, nil
}

// extensionFor maps a MIME type to a bare file extension, defaulting to png.
func extensionFor(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return defaultImageExt
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// assetName keeps a readable, filesystem-safe version of an upload's name.
func assetName(dir, name, fallback, contentType string) string {
	ext := extensionFor(contentType)
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if strings.TrimSpace(base) == "" || base == "." || base == "/" {
		base = fallback
	}
	return path.Join(dir, SafeName(base)+"."+ext)
}
