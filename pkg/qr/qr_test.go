package qr

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDataURIRendersPNG(t *testing.T) {
	r := NewRenderer(256)

	uri, err := r.DataURI("lnbc45000n1testinvoice")
	if err != nil {
		t.Fatalf("DataURI failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("expected PNG data URI, got prefix %q", uri[:min(len(uri), 30)])
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	// PNG magic bytes.
	if len(raw) < 8 || raw[0] != 0x89 || string(raw[1:4]) != "PNG" {
		t.Fatal("payload is not a PNG image")
	}
}

func TestNewRendererDefaultsSize(t *testing.T) {
	r := NewRenderer(0)
	if r.Size != DefaultSize {
		t.Fatalf("expected default size %d, got %d", DefaultSize, r.Size)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
