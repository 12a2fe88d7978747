package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const (
	encodingBrotli = "br"
	encodingZstd   = "zstd"
)

// negotiateEncoding picks br, then zstd, from the Accept-Encoding header. An empty result means identity.
func negotiateEncoding(r *http.Request) string {
	accepted := map[string]bool{}

	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.ReplaceAll(strings.TrimSpace(params), " ", "") == "q=0" {
			continue
		}

		accepted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	switch {
	case accepted[encodingBrotli]:
		return encodingBrotli
	case accepted[encodingZstd]:
		return encodingZstd
	default:
		return ""
	}
}

// writeDocument writes body with the given status, compressed when the client allows it.
func writeDocument(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) error {
	encoding := negotiateEncoding(r)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Add("Vary", "Accept-Encoding")

	if encoding != "" {
		w.Header().Set("Content-Encoding", encoding)
	}

	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return nil
	}

	var writer io.WriteCloser

	switch encoding {
	case encodingBrotli:
		writer = brotli.NewWriterLevel(w, brotli.DefaultCompression)
	case encodingZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("could not start the zstd encoder: %w", err)
		}

		writer = encoder
	default:
		_, err := w.Write(body)

		return err
	}

	if _, err := writer.Write(body); err != nil {
		_ = writer.Close()

		return err
	}

	return writer.Close()
}
